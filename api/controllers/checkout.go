package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/tillpoint-backend/api/middleware"
	"github.com/angelmondragon/tillpoint-backend/api/responses"
	"github.com/angelmondragon/tillpoint-backend/api/validators"
	"github.com/angelmondragon/tillpoint-backend/internal/checkout"
	"github.com/angelmondragon/tillpoint-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/tillpoint-backend/pkg/errors"
	"github.com/angelmondragon/tillpoint-backend/pkg/logger"
)

const (
	redemptionRecorded = "recorded"
	redemptionFailed   = "failed"
)

type saleResponse struct {
	Sale              *models.Sale `json:"sale"`
	VoucherRedemption string       `json:"voucher_redemption,omitempty"`
}

// CheckoutQuote prices a cart without recording anything.
func CheckoutQuote(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var body quoteRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Quote(r.Context(), checkout.QuoteInput{
			StoreID:     middleware.StoreIDFromContext(r.Context()),
			Items:       toLineItems(body.Items),
			VoucherCode: body.VoucherCode,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

// VoucherValidate checks a code against the cart and returns its priced effect.
func VoucherValidate(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var body voucherValidateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.ValidateVoucher(r.Context(), checkout.QuoteInput{
			StoreID:     middleware.StoreIDFromContext(r.Context()),
			Items:       toLineItems(body.Items),
			VoucherCode: body.Code,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// SaleCreate completes a sale. A failed voucher redemption still returns 201
// with voucher_redemption set to "failed".
func SaleCreate(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var body saleRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Complete(r.Context(), checkout.SaleInput{
			StoreID:     middleware.StoreIDFromContext(r.Context()),
			StaffID:     validators.SanitizeString(body.StaffID, maxIdentifierLength),
			TillID:      tillID(body.TillID, middleware.TillIDFromContext(r.Context())),
			Items:       toLineItems(body.Items),
			VoucherCode: body.VoucherCode,
			Payment:     body.Payment.toInput(),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp := saleResponse{Sale: result.Sale}
		if result.Sale.Voucher != nil {
			resp.VoucherRedemption = redemptionRecorded
			if result.Degraded() {
				resp.VoucherRedemption = redemptionFailed
			}
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, resp)
	}
}

// SaleFetch returns a recorded sale by order number for receipt reprints.
func SaleFetch(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		sale, err := svc.FindSale(r.Context(), middleware.StoreIDFromContext(r.Context()), chi.URLParam(r, "orderNumber"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sale)
	}
}
