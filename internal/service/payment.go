package service

import (
    "context"
    "errors"
    "log"
    "math"

    "github.com/google/uuid"

    "github.com/iliyamo/parking-slot-reservation/internal/model"
    "github.com/iliyamo/parking-slot-reservation/internal/repository"
)

// PaymentOrder is the result of initiating payment for a reservation:
// the provider's order reference plus the amount actually charged, in
// minor currency units.
type PaymentOrder struct {
    OrderRef    string `json:"order_ref"`
    AmountMinor int64  `json:"amount_minor"`
    Currency    string `json:"currency"`
}

// InitiatePayment requests a payment order from the external provider
// for a reservation owned by userID and stores the returned order
// reference.  Already-paid reservations are a no-op success returning
// the stored reference.  Calling it again before confirmation simply
// requests a fresh order; the latest reference wins and no other
// reservation state changes.  Provider failures surface as
// provider_error with the reservation untouched.
func (s *ReservationService) InitiatePayment(ctx context.Context, reservationID, userID uint64) (*PaymentOrder, error) {
    if reservationID == 0 {
        return nil, invalidRequest("reservation_id is required")
    }

    s.locks.Lock(reservationKey(reservationID))
    defer s.locks.Unlock(reservationKey(reservationID))

    res, err := s.reservations.Get(ctx, reservationID)
    if err != nil {
        if errors.Is(err, repository.ErrReservationNotFound) {
            return nil, notFound("reservation not found")
        }
        return nil, err
    }
    if res.UserID != userID {
        return nil, notFound("reservation not found")
    }

    amountMinor := int64(math.Floor(res.Amount * 100))

    if res.PaymentStatus == model.PaymentPaid {
        order := &PaymentOrder{AmountMinor: amountMinor, Currency: s.currency}
        if res.OrderRef != nil {
            order.OrderRef = *res.OrderRef
        }
        return order, nil
    }

    receipt := "resv-" + uuid.NewString()
    orderRef, err := s.provider.CreateOrder(ctx, amountMinor, s.currency, receipt)
    if err != nil {
        return nil, providerError("payment provider error: " + err.Error())
    }
    if err := s.reservations.SetOrderRef(ctx, res.ID, orderRef); err != nil {
        return nil, err
    }
    return &PaymentOrder{OrderRef: orderRef, AmountMinor: amountMinor, Currency: s.currency}, nil
}

// ConfirmPayment reconciles a provider confirmation callback with
// reservation state.  The reservation is located by order reference;
// the signature is checked against the provider's scheme.  An invalid
// signature persists payment_status=failed and returns
// payment_verification_failed; the reservation is not cancelled.  A
// valid signature persists paid plus the provider references.
// Re-confirming an already-paid reservation with a valid signature is a
// harmless repeat: no state change, no duplicate event.
func (s *ReservationService) ConfirmPayment(ctx context.Context, orderRef, paymentRef, signature string) (*model.Reservation, error) {
    if orderRef == "" || paymentRef == "" || signature == "" {
        return nil, invalidRequest("order_ref, payment_ref and signature are required")
    }

    res, err := s.reservations.GetByOrderRef(ctx, orderRef)
    if err != nil {
        if errors.Is(err, repository.ErrReservationNotFound) {
            return nil, notFound("no reservation for order reference")
        }
        return nil, err
    }

    s.locks.Lock(reservationKey(res.ID))
    defer s.locks.Unlock(reservationKey(res.ID))

    // Re-read under the lock; a concurrent confirmation may have
    // already settled the payment.
    res, err = s.reservations.Get(ctx, res.ID)
    if err != nil {
        return nil, err
    }

    if !s.provider.VerifySignature(orderRef, paymentRef, signature) {
        // Never downgrade a settled payment: a stray invalid callback
        // after a successful confirmation must not mark it failed.
        if res.PaymentStatus != model.PaymentPaid {
            if err := s.reservations.MarkPaymentFailed(ctx, res.ID); err != nil {
                return nil, err
            }
        }
        return nil, ErrPaymentVerificationFailed
    }

    if res.PaymentStatus == model.PaymentPaid {
        return res, nil
    }

    if err := s.reservations.MarkPaid(ctx, res.ID, paymentRef, signature); err != nil {
        return nil, err
    }
    res.PaymentStatus = model.PaymentPaid
    res.PaymentRef = &paymentRef
    res.Signature = &signature

    if s.events != nil {
        if err := s.events.ReservationPaid(ctx, res); err != nil {
            log.Printf("service: publish reservation paid event failed: %v", err)
        }
    }
    return res, nil
}
