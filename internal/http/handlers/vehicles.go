package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"onnrides/internal/domain/models"
	"onnrides/internal/payment"
	"onnrides/internal/repositories"
)

func vehicleJSON(v models.Vehicle) gin.H {
	return gin.H{
		"id":               v.ID,
		"vehicle_code":     v.VehicleCode,
		"name":             v.Name,
		"plate_number":     v.PlateNumber,
		"category":         v.Category,
		"price_per_day":    v.PricePerDay.Rupees(),
		"security_deposit": v.SecurityDeposit.Rupees(),
		"available":        v.Available,
	}
}

// GET /api/vehicles?q=&available=&page=&limit=
func GetVehicles(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	onlyAvailable := c.Query("available") == "true" || c.Query("available") == "1"

	repo := repositories.VehicleRepository{}
	vehicles, err := repo.List(c.Query("q"), onlyAvailable, page, limit)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	out := make([]gin.H, 0, len(vehicles))
	for _, v := range vehicles {
		out = append(out, vehicleJSON(v))
	}
	c.JSON(http.StatusOK, gin.H{"vehicles": out, "page": page, "limit": limit})
}

// GET /api/vehicles/:id
func GetVehicleDetail(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid_vehicle_id", "invalid vehicle id", nil)
		return
	}
	v, err := repositories.VehicleRepository{}.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicle": vehicleJSON(v)})
}

type createVehicleRequest struct {
	VehicleCode     string  `json:"vehicle_code" validate:"required"`
	Name            string  `json:"name" validate:"required"`
	PlateNumber     string  `json:"plate_number" validate:"required"`
	Category        string  `json:"category"`
	PricePerDay     float64 `json:"price_per_day" validate:"required,gt=0"`
	SecurityDeposit float64 `json:"security_deposit" validate:"gte=0"`
	Available       *bool   `json:"available"`
}

// POST /api/vehicles (admin)
func CreateVehicle(c *gin.Context) {
	var req createVehicleRequest
	if !BindAndValidate(c, &req) {
		return
	}

	price, err := payment.FromRupees(req.PricePerDay)
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "price_per_day: "+err.Error(), nil)
		return
	}
	deposit, err := payment.FromRupees(req.SecurityDeposit)
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "security_deposit: "+err.Error(), nil)
		return
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}

	id, err := repositories.VehicleRepository{}.Create(models.Vehicle{
		VehicleCode:     req.VehicleCode,
		Name:            req.Name,
		PlateNumber:     req.PlateNumber,
		Category:        req.Category,
		PricePerDay:     price,
		SecurityDeposit: deposit,
		Available:       available,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

type updateVehicleRequest struct {
	Name            *string  `json:"name"`
	PlateNumber     *string  `json:"plate_number"`
	Category        *string  `json:"category"`
	PricePerDay     *float64 `json:"price_per_day"`
	SecurityDeposit *float64 `json:"security_deposit"`
	Available       *bool    `json:"available"`
}

// PATCH /api/vehicles/:id (admin)
func UpdateVehicle(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid_vehicle_id", "invalid vehicle id", nil)
		return
	}
	var req updateVehicleRequest
	if !BindAndValidate(c, &req) {
		return
	}

	upd := models.VehicleUpdate{
		Name:        req.Name,
		PlateNumber: req.PlateNumber,
		Category:    req.Category,
		Available:   req.Available,
	}
	if req.PricePerDay != nil {
		price, err := payment.FromRupees(*req.PricePerDay)
		if err != nil || price <= 0 {
			respondError(c, http.StatusBadRequest, "validation_error", "price_per_day must be positive", nil)
			return
		}
		upd.PricePerDay = &price
	}
	if req.SecurityDeposit != nil {
		deposit, err := payment.FromRupees(*req.SecurityDeposit)
		if err != nil {
			respondError(c, http.StatusBadRequest, "validation_error", "security_deposit: "+err.Error(), nil)
			return
		}
		upd.SecurityDeposit = &deposit
	}

	if err := (repositories.VehicleRepository{}).Update(id, upd); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "id": id})
}
