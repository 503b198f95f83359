package sim

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/layer-3/xosclaim/adapters/signer"
	"github.com/layer-3/xosclaim/core"
)

const clientIDPrefix = "did:key:z6Mk"

// Wallets handles the wallet discovery listing
func (s *Server) Wallets(c *gin.Context) {
	if c.Query("projectId") == "" || c.Query("chains") == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count": 1,
		"data": []gin.H{
			{"id": "c57ca95b47569778a828d19178114f4db188b89b763c899ba0be274e97267d96", "name": "MetaMask"},
		},
	})
}

// Identity handles the identity lookup
func (s *Server) Identity(c *gin.Context) {
	clientID := c.Query("clientId")
	if !strings.HasPrefix(clientID, clientIDPrefix) || c.Query("sender") != c.Param("address") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"name": nil, "avatar": nil})
}

// Challenge issues a message to sign
func (s *Server) Challenge(c *gin.Context) {
	address := c.Query("walletAddress")
	if address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	message := fmt.Sprintf("Sign in to X.ink\n\nWallet: %s\nNonce: %s", address, uuid.NewString())

	s.mu.Lock()
	s.challenges[strings.ToLower(address)] = message
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"message": message})
}

// Verify exchanges a signed challenge for a session token
func (s *Server) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	key := strings.ToLower(req.WalletAddress)
	s.mu.Lock()
	issued, ok := s.challenges[key]
	if ok && issued == req.SignMessage {
		delete(s.challenges, key)
	}
	s.mu.Unlock()

	if !ok || issued != req.SignMessage {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid challenge"})
		return
	}
	if !strings.HasPrefix(req.Signature, "0x") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature format"})
		return
	}

	recovered, err := signer.RecoverAddress(core.ChallengeMessage(req.SignMessage), core.Signature(req.Signature))
	if err != nil || !strings.EqualFold(recovered, req.WalletAddress) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid signature"})
		return
	}

	token, err := s.issuer.Issue(req.WalletAddress)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	s.mu.Lock()
	s.verifications = append(s.verifications, req)
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"success": true, "token": token})
}

// Me returns the profile of the authenticated wallet
func (s *Server) Me(c *gin.Context) {
	address := c.GetString(addressKey)

	s.mu.Lock()
	a := *s.account(address)
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"points":        a.Points,
			"currentDraws":  a.Draws,
			"walletAddress": address,
		},
	})
}

// CheckIn claims the daily reward
func (s *Server) CheckIn(c *gin.Context) {
	address := c.GetString(addressKey)

	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.account(address)
	switch {
	case a.Ineligible:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please follow Twitter or join Discord first"})
	case a.CheckedIn:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Already checked in today"})
	default:
		a.CheckedIn = true
		a.CheckInCount++
		a.Points += s.checkInReward
		c.JSON(http.StatusOK, gin.H{
			"success":        true,
			"check_in_count": a.CheckInCount,
			"pointsEarned":   s.checkInReward,
		})
	}
}

// Draw consumes one draw
func (s *Server) Draw(c *gin.Context) {
	address := c.GetString(addressKey)

	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.account(address)
	if a.Draws <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No draws available"})
		return
	}

	a.Draws--
	a.Points += s.drawReward
	c.JSON(http.StatusOK, gin.H{"message": "Draw successful", "pointsEarned": s.drawReward})
}
