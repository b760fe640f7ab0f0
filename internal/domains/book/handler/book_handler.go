package handler

import (
	"io"
	"net/http"
	"time"

	"bookstore-marketplace/internal/domains/book/model"
	"bookstore-marketplace/internal/domains/book/service"
	"bookstore-marketplace/internal/shared/catalog"
	"bookstore-marketplace/internal/shared/export"
	"bookstore-marketplace/internal/shared/middleware"
	"bookstore-marketplace/internal/shared/response"
	"bookstore-marketplace/internal/shared/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// maxCoverUpload đọc dư 1 byte để ImageProcessor phát hiện file quá lớn
const maxCoverUpload = 5*1024*1024 + 1

// Handler - HTTP Handler cho /books
type Handler struct {
	service service.ServiceInterface
	covers  service.CoverServiceInterface
}

func NewHandler(service service.ServiceInterface, covers service.CoverServiceInterface) *Handler {
	return &Handler{
		service: service,
		covers:  covers,
	}
}

// CreateBook - POST /books
func (h *Handler) CreateBook(c *gin.Context) {
	identity, ok := middleware.RequireIdentity(c)
	if !ok {
		return
	}

	var req model.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	book, err := h.service.CreateBook(c.Request.Context(), identity, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusCreated, "Book created successfully", book)
}

// ListBooks - GET /books?name=&genre=&sellerId=&page=&limit=
func (h *Handler) ListBooks(c *gin.Context) {
	sellerID, err := utils.ParseOptionalUUID(c.Query("sellerId"))
	if err != nil {
		response.HandleError(c, model.ErrInvalidSellerID)
		return
	}

	filter := model.BookFilter{
		Title:    c.Query("name"),
		Genre:    c.Query("genre"),
		SellerID: sellerID,
	}
	params := catalog.ParseParams(c.Query("page"), c.Query("limit"), catalog.DefaultLimit)

	page, err := h.service.ListBooks(c.Request.Context(), filter, params)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Paginated(c, page)
}

// ListMyProducts - GET /books/my-products
func (h *Handler) ListMyProducts(c *gin.Context) {
	identity, ok := middleware.RequireIdentity(c)
	if !ok {
		return
	}

	params := catalog.ParseParams(c.Query("page"), c.Query("limit"), catalog.DefaultLimit)
	page, err := h.service.ListBooksForSeller(c.Request.Context(), identity.UserID, params)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Paginated(c, page)
}

// ExportMyProducts - GET /books/my-products/export
func (h *Handler) ExportMyProducts(c *gin.Context) {
	identity, ok := middleware.RequireIdentity(c)
	if !ok {
		return
	}

	f, err := h.service.ExportBooksForSeller(c.Request.Context(), identity.UserID)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	filename := utils.ExportFileName("books", identity.UserID.String()[:8], time.Now())
	if err := export.Write(c, filename, f); err != nil {
		log.Error().Err(err).Str("seller_id", identity.UserID.String()).Msg("Failed to stream book export")
	}
}

// GetBook - GET /books/:id
func (h *Handler) GetBook(c *gin.Context) {
	id, ok := bookIDParam(c)
	if !ok {
		return
	}

	book, err := h.service.GetBook(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, book)
}

// UpdateBook - PUT /books/:id
func (h *Handler) UpdateBook(c *gin.Context) {
	identity, ok := middleware.RequireIdentity(c)
	if !ok {
		return
	}
	id, ok := bookIDParam(c)
	if !ok {
		return
	}

	var req model.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	book, err := h.service.UpdateBook(c.Request.Context(), identity, id, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "Book updated successfully", book)
}

// DeleteBook - DELETE /books/:id
func (h *Handler) DeleteBook(c *gin.Context) {
	identity, ok := middleware.RequireIdentity(c)
	if !ok {
		return
	}
	id, ok := bookIDParam(c)
	if !ok {
		return
	}

	if err := h.service.DeleteBook(c.Request.Context(), identity, id); err != nil {
		response.HandleError(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "Book deleted successfully", nil)
}

// UploadCover - POST /books/:id/cover (multipart field "file")
func (h *Handler) UploadCover(c *gin.Context) {
	identity, ok := middleware.RequireIdentity(c)
	if !ok {
		return
	}
	id, ok := bookIDParam(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "Cover file is required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "Cannot read cover file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxCoverUpload))
	if err != nil {
		response.BadRequest(c, "Cannot read cover file")
		return
	}

	result, err := h.covers.UploadCover(c.Request.Context(), identity, id, data)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusAccepted, "Cover uploaded, variants are being processed", result)
}

func bookIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.HandleError(c, model.ErrInvalidBookID)
		return uuid.Nil, false
	}
	return id, true
}
