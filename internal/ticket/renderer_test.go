package ticket

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/parking-slot-reservation/internal/model"
)

func TestRenderProducesPNG(t *testing.T) {
	ref := "pay_123"
	res := &model.Reservation{
		ID:         7,
		SlotID:     3,
		StartTime:  time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		EndTime:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		PaymentRef: &ref,
	}

	data, err := Render(res, 256)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())
}

func TestRenderDefaultSize(t *testing.T) {
	res := &model.Reservation{ID: 1, SlotID: 1, StartTime: time.Now(), EndTime: time.Now().Add(time.Hour)}

	data, err := Render(res, 0)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())
}
