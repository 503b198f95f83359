package sim

import (
	"github.com/gin-gonic/gin"
)

// SetupRouter sets up the Gin router of the simulation
func SetupRouter(s *Server) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/web3modal/getWallets", s.scripted(EndpointWallets), s.Wallets)
	router.GET("/walletconnect/v1/identity/:address", s.recordClientID, s.scripted(EndpointIdentity), s.Identity)

	auth := router.Group("/xink/v1")
	{
		auth.GET("/get-sign-message2", s.scripted(EndpointChallenge), s.Challenge)
		auth.POST("/verify-signature2", s.scripted(EndpointVerify), s.Verify)
	}

	// Protected reward routes
	api := router.Group("/xink/v1")
	{
		api.GET("/me", s.scripted(EndpointProfile), AuthMiddleware(s.issuer), s.Me)
		api.POST("/check-in", s.scripted(EndpointCheckIn), AuthMiddleware(s.issuer), s.CheckIn)
		api.POST("/draw", s.scripted(EndpointDraw), AuthMiddleware(s.issuer), s.Draw)
	}

	return router
}
