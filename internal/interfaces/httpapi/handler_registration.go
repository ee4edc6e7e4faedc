package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/league-auction/internal/usecase"
)

const (
	maxUploadBodyBytes = 8 << 20
	maxUploadMemory    = 1 << 20
)

type registrationRequest struct {
	TournamentID string              `json:"tournament_id" validate:"required"`
	Form         registrationFormDTO `json:"form"`
}

type uploadImageDTO struct {
	URL string `json:"url"`
}

func (h *Handler) SubmitRegistration(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitRegistration")
	defer span.End()

	var req registrationRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.registrationService.Submit(ctx, req.TournamentID, req.Form.toDomain())
	if err != nil {
		h.logger.WarnContext(ctx, "submit registration failed", "tournament_id", req.TournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, submitRegistrationDTO{
		Registration: registrationToDTO(result.Registration),
		Summary:      summaryToDTO(result.Summary),
	})
}

func (h *Handler) ValidateRegistration(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ValidateRegistration")
	defer span.End()

	var req registrationRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.registrationService.Validate(ctx, req.TournamentID, req.Form.toDomain())
	if err != nil {
		h.logger.WarnContext(ctx, "validate registration failed", "tournament_id", req.TournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, draftValidationToDTO(result))
}

func (h *Handler) LookupRegistrationReference(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LookupRegistrationReference")
	defer span.End()

	query := r.URL.Query()
	tournamentID := strings.TrimSpace(query.Get("tournamentId"))
	result, err := h.registrationService.LookupReference(ctx, usecase.LookupReferenceInput{
		TournamentID: tournamentID,
		Email:        query.Get("email"),
		Phone:        query.Get("phone"),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "lookup registration reference failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, lookupReferenceToDTO(result))
}

func (h *Handler) UploadRegistrationImage(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UploadRegistrationImage")
	defer span.End()

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBodyBytes)
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid multipart payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: image file is required", usecase.ErrInvalidInput))
		return
	}
	defer file.Close()

	url, err := h.registrationService.UploadImage(ctx, usecase.UploadImageInput{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "upload registration image failed", "file_name", header.Filename, "size", header.Size, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, uploadImageDTO{URL: url})
}

func (h *Handler) GetRegistrationReceipt(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRegistrationReceipt")
	defer span.End()

	registrationID := r.PathValue("registrationID")
	body, err := h.registrationService.Receipt(ctx, registrationID)
	if err != nil {
		h.logger.WarnContext(ctx, "render registration receipt failed", "registration_id", registrationID, "error", err)
		writeError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", "registration-"+registrationID+".pdf"))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
