package controllers

import (
	"net/http"

	"github.com/baxoq/baxoq-store-backend/api/responses"
	"github.com/baxoq/baxoq-store-backend/api/validators"
	"github.com/baxoq/baxoq-store-backend/internal/newsletter"
	pkgerrors "github.com/baxoq/baxoq-store-backend/pkg/errors"
	"github.com/baxoq/baxoq-store-backend/pkg/logger"
	"github.com/baxoq/baxoq-store-backend/pkg/types"
)

type newsletterSubscribeRequest struct {
	Email       string                       `json:"email" validate:"required,email"`
	Preferences *types.NewsletterPreferences `json:"preferences"`
}

func NewsletterSubscribe(svc newsletter.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "newsletter service unavailable"))
			return
		}

		var body newsletterSubscribeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sub, err := svc.Subscribe(r.Context(), body.Email, body.Preferences)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, sub)
	}
}

type newsletterUnsubscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func NewsletterUnsubscribe(svc newsletter.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "newsletter service unavailable"))
			return
		}

		var body newsletterUnsubscribeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Unsubscribe(r.Context(), body.Email); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "unsubscribed"})
	}
}
