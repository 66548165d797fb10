package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/baxoq/baxoq-store-backend/api/responses"
	"github.com/baxoq/baxoq-store-backend/api/validators"
	"github.com/baxoq/baxoq-store-backend/internal/contact"
	"github.com/baxoq/baxoq-store-backend/pkg/enums"
	pkgerrors "github.com/baxoq/baxoq-store-backend/pkg/errors"
	"github.com/baxoq/baxoq-store-backend/pkg/logger"
)

type contactSubmitRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// ContactSubmit accepts a storefront support message. Field checks happen in
// the service so the response carries every problem at once.
func ContactSubmit(svc contact.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contact service unavailable"))
			return
		}

		var body contactSubmitRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		msg, err := svc.Submit(r.Context(), contact.SubmitInput{
			Name:    validators.SanitizeString(body.Name, 120),
			Email:   validators.SanitizeString(body.Email, 254),
			Subject: validators.SanitizeString(body.Subject, 200),
			Message: validators.SanitizeString(body.Message, 4000),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, msg)
	}
}

func AdminContactList(svc contact.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contact service unavailable"))
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var status *enums.ContactStatus
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			parsed, err := enums.ParseContactStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown status filter").
					WithDetails(map[string]any{"status": raw}))
				return
			}
			status = &parsed
		}

		list, page, err := svc.List(r.Context(), status, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"items": list,
			"page":  page,
		})
	}
}

type contactStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func AdminContactSetStatus(svc contact.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contact service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(chi.URLParam(r, "messageId"), "messageId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body contactStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		msg, err := svc.SetStatus(r.Context(), id, enums.ContactStatus(body.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, msg)
	}
}
