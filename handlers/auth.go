package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"linque/models"
	"linque/services/vendor"
)

// VendorAuthHandler serves vendor signup, login and token verification.
type VendorAuthHandler struct {
	Service vendor.VendorService
}

func NewVendorAuthHandler(svc vendor.VendorService) *VendorAuthHandler {
	return &VendorAuthHandler{Service: svc}
}

// SignUpHandler registers a new vendor account and returns a token.
func (h *VendorAuthHandler) SignUpHandler(c *gin.Context) {
	logger := getLogger(c)

	var reg models.VendorRegistration
	if err := c.ShouldBindJSON(&reg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	result, err := h.Service.Register(c.Request.Context(), reg)
	if err != nil {
		if errors.Is(err, vendor.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}
		logger.Error("Vendor registration failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, result)
}

// LoginHandler authenticates a vendor and returns a fresh token.
func (h *VendorAuthHandler) LoginHandler(c *gin.Context) {
	logger := getLogger(c)

	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	result, err := h.Service.Authenticate(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, vendor.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		logger.Error("Vendor login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to authenticate"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// VerifyHandler returns the vendor behind the presented token. The auth
// middleware has already validated it.
func (h *VendorAuthHandler) VerifyHandler(c *gin.Context) {
	logger := getLogger(c)
	vendorID := c.GetString("vendorID")

	v, err := h.Service.GetByID(c.Request.Context(), vendorID)
	if err != nil {
		logger.Error("Vendor lookup failed", zap.String("vendorId", vendorID), zap.Error(err))
		c.JSON(http.StatusNotFound, gin.H{"error": "Vendor not found"})
		return
	}

	c.JSON(http.StatusOK, v)
}
