package storefront

import (
	"bytes"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	storefrontdto "github.com/angelmondragon/storefront/api/controllers/storefront/dto"
	"github.com/angelmondragon/storefront/api/middleware"
	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/api/validators"
	storefrontsvc "github.com/angelmondragon/storefront/internal/storefront"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
)

const (
	maxNameLen  = 200
	maxImageLen = 500

	ToastIDParam = "toastId"
)

// Page opens a fresh session and renders the whole storefront document.
func Page(reg *storefrontsvc.Registry, title string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := reg.Open()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithSessionID(ctx, sess.ID().String())
			logg.Info(ctx, "session.opened")
		}

		data, err := sess.Page(title)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render page"))
			return
		}
		var buf bytes.Buffer
		if err := reg.Renderer().Page(&buf, data); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render page"))
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		_, _ = buf.WriteTo(w)
	}
}

// SessionView returns the current cart, drawer and notification state.
func SessionView(logg *logger.Logger) http.HandlerFunc {
	return withSession(logg, func(w http.ResponseWriter, r *http.Request, sess *storefrontsvc.Session) {
		responses.WriteSuccess(w, sess.View())
	})
}

// AddItem adds a catalog product by id, or an explicit name/price/image.
func AddItem(logg *logger.Logger) http.HandlerFunc {
	return withSession(logg, func(w http.ResponseWriter, r *http.Request, sess *storefrontsvc.Session) {
		var payload storefrontdto.AddItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var (
			view storefrontsvc.View
			err  error
		)
		if payload.ProductID > 0 {
			view, err = sess.AddProduct(payload.ProductID)
		} else {
			if payload.Price.IsNegative() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
					WithDetails(map[string]string{"price": "must not be negative"}))
				return
			}
			name := validators.SanitizeString(payload.Name, maxNameLen)
			if name == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
					WithDetails(map[string]string{"name": "is required"}))
				return
			}
			view, err = sess.AddItem(name, *payload.Price, validators.SanitizeString(payload.Image, maxImageLen))
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	})
}

func RemoveItem(logg *logger.Logger) http.HandlerFunc {
	return withSession(logg, func(w http.ResponseWriter, r *http.Request, sess *storefrontsvc.Session) {
		var payload storefrontdto.RemoveItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := sess.RemoveItem(validators.SanitizeString(payload.Name, maxNameLen))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	})
}

func AdjustQuantity(logg *logger.Logger) http.HandlerFunc {
	return withSession(logg, func(w http.ResponseWriter, r *http.Request, sess *storefrontsvc.Session) {
		var payload storefrontdto.AdjustQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := sess.AdjustQuantity(validators.SanitizeString(payload.Name, maxNameLen), payload.Delta)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	})
}

// ToggleDrawer flips the drawer, or forces it when the body carries "open".
func ToggleDrawer(logg *logger.Logger) http.HandlerFunc {
	return withSession(logg, func(w http.ResponseWriter, r *http.Request, sess *storefrontsvc.Session) {
		var payload storefrontdto.DrawerRequest
		if err := validators.DecodeOptionalJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sess.ToggleDrawer(payload.Open))
	})
}

func Escape(logg *logger.Logger) http.HandlerFunc {
	return withSession(logg, func(w http.ResponseWriter, r *http.Request, sess *storefrontsvc.Session) {
		responses.WriteSuccess(w, sess.Escape())
	})
}

func Checkout(logg *logger.Logger) http.HandlerFunc {
	return withSession(logg, func(w http.ResponseWriter, r *http.Request, sess *storefrontsvc.Session) {
		view, err := sess.Checkout()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	})
}

func Toasts(logg *logger.Logger) http.HandlerFunc {
	return withSession(logg, func(w http.ResponseWriter, r *http.Request, sess *storefrontsvc.Session) {
		responses.WriteSuccess(w, sess.View().Toasts)
	})
}

func DismissToast(logg *logger.Logger) http.HandlerFunc {
	return withSession(logg, func(w http.ResponseWriter, r *http.Request, sess *storefrontsvc.Session) {
		id, err := uuid.Parse(chi.URLParam(r, ToastIDParam))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid toast id"))
			return
		}
		view, ok := sess.DismissToast(id)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "toast not found"))
			return
		}
		responses.WriteSuccess(w, view)
	})
}

type sessionHandler func(http.ResponseWriter, *http.Request, *storefrontsvc.Session)

func withSession(logg *logger.Logger, h sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())
		if sess == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "session not found"))
			return
		}
		h(w, r, sess)
	}
}
