package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"

	"votehub.xyz/votecollector-service/pkg/models"
)

// ListKeypads supports the operator overview filters: user=anonymous or
// personalized, active=active or inactive (by owning participant).
func (rs *RestfulServer) ListKeypads(c *gin.Context) {
	query := rs.Voting.Db.Conn.Model(&models.Keypad{}).
		Joins("LEFT JOIN participants ON participants.id = keypads.participant_id")

	switch c.Query("user") {
	case "anonymous":
		query = query.Where("keypads.participant_id IS NULL")
	case "personalized":
		query = query.Where("keypads.participant_id IS NOT NULL")
	}

	switch c.Query("active") {
	case "active":
		query = query.Where("keypads.participant_id IS NULL OR participants.is_active = ?", true)
	case "inactive":
		query = query.Where("keypads.participant_id IS NOT NULL AND participants.is_active = ?", false)
	}

	var keypads []models.Keypad
	if err := query.Order("keypads.keypad_id").Find(&keypads).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, keypads)
}

type CreateKeypadRequest struct {
	KeypadID      int   `json:"keypad_id"`
	ParticipantID *uint `json:"participant_id"`
	SeatID        *uint `json:"seat_id"`
}

var createKeypadRequestSchema = z.Struct(z.Shape{
	"KeypadID": z.Int().GT(0).Required(),
})

func (rs *RestfulServer) CreateKeypad(c *gin.Context) {
	var req CreateKeypadRequest
	if err := createKeypadRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	keypad := models.Keypad{
		KeypadID:      req.KeypadID,
		ParticipantID: req.ParticipantID,
		SeatID:        req.SeatID,
		Battery:       -1,
	}

	var existing int64
	if err := rs.Voting.Db.Conn.Model(&models.Keypad{}).
		Where("keypad_id = ?", req.KeypadID).Count(&existing).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if existing > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "keypad already in database"})
		return
	}

	if err := rs.Voting.Db.Conn.Create(&keypad).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, keypad)
}

type CreateKeypadRangeRequest struct {
	FromID int `json:"from_id"`
	ToID   int `json:"to_id"`
}

var createKeypadRangeRequestSchema = z.Struct(z.Shape{
	"FromID": z.Int().GT(0).Required(),
	"ToID":   z.Int().GT(0).Required(),
})

// CreateKeypadRange bulk-creates keypads from_id..to_id. Ids already in the
// database are reported back, not treated as a failure.
func (rs *RestfulServer) CreateKeypadRange(c *gin.Context) {
	var req CreateKeypadRangeRequest
	if err := createKeypadRangeRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}
	if req.ToID < req.FromID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to_id must not be smaller than from_id"})
		return
	}

	created := 0
	existing := []int{}
	for id := req.FromID; id <= req.ToID; id++ {
		keypad := models.Keypad{KeypadID: id, Battery: -1}
		result := rs.Voting.Db.Conn.
			Where(models.Keypad{KeypadID: id}).
			FirstOrCreate(&keypad)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
			return
		}
		if result.RowsAffected == 0 {
			existing = append(existing, id)
			continue
		}
		created++
	}

	c.JSON(http.StatusOK, gin.H{"created": created, "existing": existing})
}

func (rs *RestfulServer) DeleteKeypad(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid keypad id"})
		return
	}

	var keypad models.Keypad
	if err := rs.Voting.Db.Conn.First(&keypad, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown keypad"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := rs.Voting.Db.Conn.Delete(&keypad).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}
