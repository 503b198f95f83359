package sim

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/layer-3/xosclaim/config"
)

// Endpoint identifies a simulated route
type Endpoint string

const (
	EndpointWallets   Endpoint = "wallets"
	EndpointIdentity  Endpoint = "identity"
	EndpointChallenge Endpoint = "challenge"
	EndpointVerify    Endpoint = "verify"
	EndpointProfile   Endpoint = "profile"
	EndpointCheckIn   Endpoint = "check_in"
	EndpointDraw      Endpoint = "draw"
)

// Reply replaces the normal response of an endpoint for one request
type Reply struct {
	Status     int
	Body       any // defaults to {"error": <status text>}
	RetryAfter string
}

// Account is the simulated reward state of one wallet
type Account struct {
	Points       int64
	Draws        int
	CheckedIn    bool
	CheckInCount int
	Ineligible   bool
}

// VerifyRequest is the last signature submission received
type VerifyRequest struct {
	WalletAddress string `json:"walletAddress" binding:"required"`
	SignMessage   string `json:"signMessage" binding:"required"`
	Signature     string `json:"signature" binding:"required"`
	ReferralCode  string `json:"referralCode"`
}

// Server simulates the wallet discovery, identity and reward services
type Server struct {
	router *gin.Engine
	issuer *TokenIssuer

	mu            sync.Mutex
	checkInReward int64
	drawReward    int64
	accounts      map[string]*Account
	challenges    map[string]string
	scripts       map[Endpoint][]Reply
	hits          map[Endpoint]int
	clientIDs     []string
	verifications []VerifyRequest
}

// New creates a simulation with default rewards
func New() *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{
		issuer:        NewTokenIssuer(time.Hour),
		checkInReward: 10,
		drawReward:    5,
		accounts:      make(map[string]*Account),
		challenges:    make(map[string]string),
		scripts:       make(map[Endpoint][]Reply),
		hits:          make(map[Endpoint]int),
	}
	s.router = SetupRouter(s)
	return s
}

// Handler returns the HTTP handler of the simulation
func (s *Server) Handler() http.Handler {
	return s.router
}

// APIConfig points the client configuration at a simulation served under baseURL
func APIConfig(baseURL string) config.APIConfig {
	cfg := config.Default().API
	cfg.WalletsBaseURL = baseURL + "/web3modal"
	cfg.IdentityBaseURL = baseURL + "/walletconnect/v1"
	cfg.BaseURL = baseURL + "/xink/v1"
	cfg.Timeout = 5 * time.Second
	return cfg
}

// FastConfig is a full configuration with millisecond retries and no pacing
func FastConfig(baseURL string) *config.Config {
	cfg := config.Default()
	cfg.API = APIConfig(baseURL)
	cfg.Handshake = config.RetryConfig{Attempts: 3, Delay: time.Millisecond, MaxDelay: 10 * time.Millisecond}
	cfg.Rewards = config.RetryConfig{Attempts: 3, Delay: time.Millisecond}
	cfg.Batch.AccountDelay = config.DelayRange{}
	return cfg
}

// SetRewards sets the points granted per check-in and per draw
func (s *Server) SetRewards(checkIn, draw int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.checkInReward = checkIn
	s.drawReward = draw
}

// SetAccount replaces the state of a wallet
func (s *Server) SetAccount(address string, account Account) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := account
	s.accounts[strings.ToLower(address)] = &a
}

// Account returns a copy of the state of a wallet
func (s *Server) Account(address string) Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	return *s.account(address)
}

// Script queues replies served before the endpoint's normal behavior
func (s *Server) Script(endpoint Endpoint, replies ...Reply) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.scripts[endpoint] = append(s.scripts[endpoint], replies...)
}

// Hits returns how many requests reached an endpoint
func (s *Server) Hits(endpoint Endpoint) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.hits[endpoint]
}

// ClientIDs returns the client ids seen by the identity endpoint
func (s *Server) ClientIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.clientIDs...)
}

// Verifications returns the accepted signature submissions
func (s *Server) Verifications() []VerifyRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]VerifyRequest(nil), s.verifications...)
}

// account must be called with mu held
func (s *Server) account(address string) *Account {
	key := strings.ToLower(address)
	a, ok := s.accounts[key]
	if !ok {
		a = &Account{}
		s.accounts[key] = a
	}
	return a
}
