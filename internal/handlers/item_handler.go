package handlers

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Pedrocavalcantip/projeto-prefeitura-backend-sub000/internal/apperrors"
	"github.com/Pedrocavalcantip/projeto-prefeitura-backend-sub000/internal/middleware"
	"github.com/Pedrocavalcantip/projeto-prefeitura-backend-sub000/internal/models"
	"github.com/Pedrocavalcantip/projeto-prefeitura-backend-sub000/internal/service"
	"github.com/Pedrocavalcantip/projeto-prefeitura-backend-sub000/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ItemHandler serves one purpose-bound mount of the item API. The same
// handler set is registered under /donations and /relocations; the bound
// purpose scopes every lookup, so an id of the other purpose is a 404.
type ItemHandler struct {
	service   service.ItemService
	purpose   string
	uploadDir string
	uploadURL string
}

func NewItemHandler(service service.ItemService, purpose, uploadDir, uploadURL string) *ItemHandler {
	return &ItemHandler{
		service:   service,
		purpose:   purpose,
		uploadDir: uploadDir,
		uploadURL: strings.TrimRight(uploadURL, "/"),
	}
}

// Register wires the routes for this mount. Static segments ("/mine",
// "/expired") are registered alongside "/:id"; gin resolves statics first.
func (h *ItemHandler) Register(rg *gin.RouterGroup, authRequired gin.HandlerFunc) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)

	rg.GET("/mine/active", authRequired, h.MineActive)
	rg.GET("/mine/finalized", authRequired, h.MineFinalized)
	rg.GET("/mine/export", authRequired, h.ExportMine)

	rg.POST("", authRequired, h.Create)
	rg.PUT("/:id", authRequired, h.Update)
	rg.PATCH("/:id/status", authRequired, h.SetStatus)
	rg.DELETE("/:id", authRequired, h.Delete)

	// Manual triggers for the expiration jobs.
	rg.PATCH("/expired", authRequired, h.FinalizeExpired)
	rg.DELETE("/expired", authRequired, h.PurgeExpired)
}

func (h *ItemHandler) List(c *gin.Context) {
	items, err := h.service.ListPublic(c.Request.Context(), h.purpose, c.Query("category"), c.Query("title"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *ItemHandler) Get(c *gin.Context) {
	id, ok := h.itemID(c)
	if !ok {
		return
	}

	item, err := h.service.GetByID(c.Request.Context(), h.purpose, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *ItemHandler) MineActive(c *gin.Context) {
	h.listMine(c, models.StatusActive)
}

func (h *ItemHandler) MineFinalized(c *gin.Context) {
	h.listMine(c, models.StatusFinalized)
}

func (h *ItemHandler) listMine(c *gin.Context, status string) {
	items, err := h.service.ListMine(c.Request.Context(), h.purpose, middleware.NgoID(c), status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// ExportMine streams the tenant's full catalog for this purpose as xlsx.
func (h *ItemHandler) ExportMine(c *gin.Context) {
	ctx := c.Request.Context()
	ngoID := middleware.NgoID(c)

	active, err := h.service.ListMine(ctx, h.purpose, ngoID, models.StatusActive)
	if err != nil {
		respondError(c, err)
		return
	}
	finalized, err := h.service.ListMine(ctx, h.purpose, ngoID, models.StatusFinalized)
	if err != nil {
		respondError(c, err)
		return
	}

	buf, err := utils.ItemsReport(append(active, finalized...))
	if err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("itens-%s.xlsx", strings.ToLower(h.purpose))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (h *ItemHandler) Create(c *gin.Context) {
	fields, err := h.parseItemRequest(c)
	if err != nil {
		respondError(c, err)
		return
	}

	item, err := h.service.Create(c.Request.Context(), h.purpose, middleware.NgoID(c), fields)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *ItemHandler) Update(c *gin.Context) {
	id, ok := h.itemID(c)
	if !ok {
		return
	}

	fields, err := h.parseItemRequest(c)
	if err != nil {
		respondError(c, err)
		return
	}

	item, err := h.service.Update(c.Request.Context(), h.purpose, id, middleware.NgoID(c), fields)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *ItemHandler) SetStatus(c *gin.Context) {
	id, ok := h.itemID(c)
	if !ok {
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, apperrors.NewValidation("status", "corpo da requisição inválido"))
		return
	}

	item, err := h.service.SetStatus(c.Request.Context(), h.purpose, id, middleware.NgoID(c), body.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *ItemHandler) Delete(c *gin.Context) {
	id, ok := h.itemID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), h.purpose, id, middleware.NgoID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ItemHandler) FinalizeExpired(c *gin.Context) {
	ctx := c.Request.Context()

	if h.purpose == models.PurposeDonation {
		ids, err := h.service.FinalizeExpiredDonations(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"finalized": ids})
		return
	}

	count, err := h.service.FinalizeAgedRelocations(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"finalized": count})
}

func (h *ItemHandler) PurgeExpired(c *gin.Context) {
	count, err := h.service.PurgeOldItems(c.Request.Context(), h.purpose)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"purged": count})
}

func (h *ItemHandler) itemID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, apperrors.NewValidation("id", "id inválido"))
		return 0, false
	}
	return uint(id), true
}

// parseItemRequest reads the write payload. JSON bodies carry a direct
// imageUrl; multipart bodies may instead carry an "image" file, which is
// stored and turned into a served URL. Exactly one image reference must
// resolve.
func (h *ItemHandler) parseItemRequest(c *gin.Context) (map[string]any, error) {
	fields := make(map[string]any)

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		form, err := c.MultipartForm()
		if err != nil {
			return nil, apperrors.NewValidation("body", "formulário multipart inválido")
		}
		for name, values := range form.Value {
			if len(values) > 0 {
				fields[name] = values[0]
			}
		}

		files := form.File["image"]
		_, hasDirectURL := fields["imageUrl"]
		if len(files) > 0 {
			if hasDirectURL {
				return nil, apperrors.NewValidation("imageUrl", "envie a imagem ou a URL, não ambos")
			}
			url, err := h.storeImage(c, files[0])
			if err != nil {
				return nil, err
			}
			fields["imageUrl"] = url
		}
	} else {
		if err := c.ShouldBindJSON(&fields); err != nil {
			return nil, apperrors.NewValidation("body", "corpo da requisição inválido")
		}
	}

	if _, ok := fields["imageUrl"]; !ok {
		return nil, apperrors.NewValidation("imageUrl", "é necessário enviar uma imagem ou uma URL de imagem")
	}

	return fields, nil
}

// storeImage writes an uploaded image under the served uploads dir with a
// generated name and returns its public URL.
func (h *ItemHandler) storeImage(c *gin.Context, fh *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		return "", apperrors.NewValidation("image", "formato de imagem não suportado")
	}

	name := uuid.New().String() + ext
	if err := c.SaveUploadedFile(fh, filepath.Join(h.uploadDir, name)); err != nil {
		return "", fmt.Errorf("failed to store uploaded image: %w", err)
	}
	return h.uploadURL + "/" + name, nil
}
