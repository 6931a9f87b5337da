package generation

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/musebox/core/internal/models"
	"github.com/musebox/core/internal/pkg/pagination"
	"github.com/musebox/core/internal/pkg/response"
	"gorm.io/gorm"
)

// ContentHandler lists generated content per track.
type ContentHandler struct {
	db *gorm.DB
}

func NewContentHandler(db *gorm.DB) *ContentHandler { return &ContentHandler{db: db} }

func (h *ContentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/content/:track", h.list)
}

func (h *ContentHandler) list(c *gin.Context) {
	trackKey := c.Param("track")
	page := pagination.FromContext(c)

	scope := func(model interface{}) *gorm.DB {
		tx := h.db.WithContext(c.Request.Context()).Model(model).Order("created_at DESC")
		if sourceID := c.Query("source_id"); sourceID != "" {
			tx = tx.Where("source_id = ?", sourceID)
		}
		if status := c.Query("status"); status != "" {
			tx = tx.Where("status = ?", status)
		}
		return tx
	}

	switch trackKey {
	case models.TrackWisdom:
		listContent[models.WisdomModel](c, scope(&models.WisdomModel{}), page)
	case models.TrackGreeting:
		listContent[models.GreetingModel](c, scope(&models.GreetingModel{}), page)
	case models.TrackMotivational:
		listContent[models.QuoteModel](c, scope(&models.QuoteModel{}), page)
	case models.TrackFacts:
		listContent[models.FactModel](c, scope(&models.FactModel{}), page)
	case models.TrackMultipleChoice:
		listContent[models.MultipleChoiceModel](c, scope(&models.MultipleChoiceModel{}), page)
	case models.TrackTrueFalse:
		listContent[models.TrueFalseModel](c, scope(&models.TrueFalseModel{}), page)
	case models.TrackWhoAmI:
		listContent[models.WhoAmIModel](c, scope(&models.WhoAmIModel{}), page)
	default:
		response.NotFoundMsg(c, fmt.Sprintf("unknown content type %q", trackKey))
	}
}

func listContent[T any](c *gin.Context, tx *gorm.DB, page pagination.Query) {
	var items []T
	meta, err := pagination.Paginate(tx, page, &items)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, items, meta)
}
