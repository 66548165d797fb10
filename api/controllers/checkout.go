package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/baxoq/baxoq-store-backend/api/middleware"
	"github.com/baxoq/baxoq-store-backend/api/responses"
	"github.com/baxoq/baxoq-store-backend/api/validators"
	checkoutsvc "github.com/baxoq/baxoq-store-backend/internal/checkout"
	"github.com/baxoq/baxoq-store-backend/pkg/enums"
	pkgerrors "github.com/baxoq/baxoq-store-backend/pkg/errors"
	"github.com/baxoq/baxoq-store-backend/pkg/logger"
	"github.com/baxoq/baxoq-store-backend/pkg/types"
)

func CheckoutBegin(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		session, err := svc.Begin(r.Context(), middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, session)
	}
}

func CheckoutFetch(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		session, err := svc.Get(r.Context(), middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, session)
	}
}

// addressBook persists a user's preferred shipping address for prefill on
// later checkouts.
type addressBook interface {
	UpdateShippingAddress(ctx context.Context, id uuid.UUID, addr types.Address) error
}

func CheckoutSubmitShipping(svc checkoutsvc.Service, book addressBook, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		// Field presence is validated by the service so every missing field
		// is reported at once.
		var body types.Address
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		session, err := svc.SubmitShipping(r.Context(), userID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// Remember the address on the profile. Best effort, the checkout
		// already holds the authoritative copy.
		if book != nil && session.ShippingAddress != nil {
			if err := book.UpdateShippingAddress(r.Context(), userID, *session.ShippingAddress); err != nil && logg != nil {
				logg.Error(logg.WithUserID(r.Context(), userID.String()), "saving shipping address to profile", err)
			}
		}

		responses.WriteSuccess(w, session)
	}
}

func CheckoutSelectPayment(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var body paymentMethodRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.SelectPayment(r.Context(), middleware.UserIDFromContext(r.Context()), enums.PaymentMethod(body.Method))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, session)
	}
}

func CheckoutPlace(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		order, err := svc.Place(r.Context(), middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
