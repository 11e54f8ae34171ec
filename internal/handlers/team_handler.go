package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	domainFinance "github.com/InkLinkStudio/studio-crm/internal/domain/finance"
	"github.com/InkLinkStudio/studio-crm/internal/httperr"
	"github.com/InkLinkStudio/studio-crm/internal/httpresp"
	"github.com/InkLinkStudio/studio-crm/internal/middleware"
	"github.com/InkLinkStudio/studio-crm/internal/models"
	"github.com/InkLinkStudio/studio-crm/internal/validators"
)

// ======================================================
// HANDLER
// ======================================================

type TeamHandler struct {
	db *gorm.DB
}

func NewTeamHandler(db *gorm.DB) *TeamHandler {
	return &TeamHandler{db: db}
}

// ======================================================
// LIST
// ======================================================

type TeamMember struct {
	models.User
	Contract *models.ArtistContract `json:"contract,omitempty"`
}

func (h *TeamHandler) List(c *gin.Context) {
	studioID := c.MustGet(middleware.ContextStudioID).(string)

	var users []models.User
	if err := h.db.
		Where("studio_id = ?", studioID).
		Order("created_at ASC").
		Find(&users).Error; err != nil {
		httperr.Internal(c, "failed_to_list_team", "Errore durante il caricamento del team.")
		return
	}

	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}

	var contracts []models.ArtistContract
	if len(ids) > 0 {
		if err := h.db.
			Where("artist_id IN ?", ids).
			Find(&contracts).Error; err != nil {
			httperr.Internal(c, "failed_to_list_contracts", "Errore durante il caricamento dei contratti.")
			return
		}
	}

	byArtist := make(map[string]*models.ArtistContract, len(contracts))
	for i := range contracts {
		byArtist[contracts[i].ArtistID] = &contracts[i]
	}

	members := make([]TeamMember, 0, len(users))
	for _, u := range users {
		members = append(members, TeamMember{User: u, Contract: byArtist[u.ID]})
	}

	httpresp.List(c, members)
}

// ======================================================
// CREATE MEMBER
// ======================================================

type CreateMemberRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
	Role     string `json:"role" binding:"required"`
}

func (h *TeamHandler) Create(c *gin.Context) {
	studioID := c.MustGet(middleware.ContextStudioID).(string)

	var req CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dati non validi.")
		return
	}

	role, err := domainFinance.ParseRole(req.Role)
	if err != nil {
		httperr.BadRequest(c, "invalid_role", "Ruolo non valido.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validators.IsEmailDomainValid(email) {
		httperr.BadRequest(c, "invalid_email_domain", "Il dominio dell'email non sembra valido.")
		return
	}

	var count int64
	h.db.Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		httperr.Conflict(c, "email_already_exists", "Email già registrata.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Errore interno.")
		return
	}

	user := models.User{
		ID:           uuid.NewString(),
		StudioID:     studioID,
		FullName:     req.FullName,
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Role:         strings.ToLower(string(role)),
	}

	if err := h.db.Create(&user).Error; err != nil {
		httperr.Internal(c, "failed_to_create_member", "Errore durante la creazione.")
		return
	}

	c.JSON(http.StatusCreated, user)
}

// ======================================================
// UPDATE MEMBER
// ======================================================

type UpdateMemberRequest struct {
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
	Role     *string `json:"role"`
	Active   *bool   `json:"active"`
}

func (h *TeamHandler) Update(c *gin.Context) {
	studioID := c.MustGet(middleware.ContextStudioID).(string)

	var req UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dati non validi.")
		return
	}

	var user models.User
	if err := h.db.
		Where("id = ? AND studio_id = ?", c.Param("id"), studioID).
		First(&user).Error; err != nil {
		httperr.NotFound(c, "member_not_found", "Membro non trovato.")
		return
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Role != nil {
		role, err := domainFinance.ParseRole(*req.Role)
		if err != nil {
			httperr.BadRequest(c, "invalid_role", "Ruolo non valido.")
			return
		}
		user.Role = strings.ToLower(string(role))
	}
	if req.Active != nil {
		user.Active = *req.Active
	}

	if err := h.db.Save(&user).Error; err != nil {
		httperr.Internal(c, "failed_to_update_member", "Errore durante il salvataggio.")
		return
	}

	c.JSON(http.StatusOK, user)
}

// ======================================================
// CONTRACT UPSERT
// ======================================================

type ContractRequest struct {
	CommissionRate       decimal.Decimal `json:"commission_rate"`
	RentType             string          `json:"rent_type"`
	MonthlyRent          decimal.Decimal `json:"monthly_rent"`
	PresencePackageLimit int             `json:"presence_package_limit"`
}

// UpsertContract creates or replaces an artist's contract terms.
func (h *TeamHandler) UpsertContract(c *gin.Context) {
	studioID := c.MustGet(middleware.ContextStudioID).(string)
	artistID := c.Param("id")

	var req ContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dati non validi.")
		return
	}

	if req.CommissionRate.IsNegative() || req.CommissionRate.GreaterThan(decimal.NewFromInt(100)) {
		httperr.BadRequest(c, "invalid_commission_rate", "La percentuale deve essere tra 0 e 100.")
		return
	}

	switch req.RentType {
	case "", models.RentFixed, models.RentPercentage, models.RentPresences:
	default:
		httperr.BadRequest(c, "invalid_rent_type", "Tipo di affitto non valido.")
		return
	}

	var artist models.User
	if err := h.db.
		Where("id = ? AND studio_id = ?", artistID, studioID).
		First(&artist).Error; err != nil {
		httperr.NotFound(c, "member_not_found", "Membro non trovato.")
		return
	}

	var contract models.ArtistContract
	err := h.db.Where("artist_id = ?", artistID).First(&contract).Error
	if err == gorm.ErrRecordNotFound {
		contract = models.ArtistContract{
			ID:       uuid.NewString(),
			ArtistID: artistID,
		}
	} else if err != nil {
		httperr.Internal(c, "contract_lookup_failed", "Errore interno.")
		return
	}

	contract.CommissionRate = req.CommissionRate
	if req.RentType != "" {
		contract.RentType = req.RentType
	}
	contract.MonthlyRent = req.MonthlyRent
	contract.PresencePackageLimit = req.PresencePackageLimit

	if err := h.db.Save(&contract).Error; err != nil {
		httperr.Internal(c, "failed_to_save_contract", "Errore durante il salvataggio.")
		return
	}

	c.JSON(http.StatusOK, contract)
}
