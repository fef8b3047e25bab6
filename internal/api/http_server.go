package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"mechshop/internal/config"
	"mechshop/internal/domain"
	"mechshop/internal/service"

	"github.com/rs/zerolog"
)

// Server exposes the mechanic-shop REST API.
type Server struct {
	cfg       *config.Config
	customers *service.CustomerService
	mechanics *service.MechanicService
	inventory *service.InventoryService
	tickets   *service.TicketService
	cache     domain.Cache
	logger    *zerolog.Logger
	server    *http.Server

	defaultLimiter *rateLimiter
	loginLimiter   *rateLimiter
}

type Services struct {
	Customers *service.CustomerService
	Mechanics *service.MechanicService
	Inventory *service.InventoryService
	Tickets   *service.TicketService
}

func NewServer(cfg *config.Config, svcs Services, cache domain.Cache, logger *zerolog.Logger) *Server {
	s := &Server{
		cfg:            cfg,
		customers:      svcs.Customers,
		mechanics:      svcs.Mechanics,
		inventory:      svcs.Inventory,
		tickets:        svcs.Tickets,
		cache:          cache,
		logger:         logger,
		defaultLimiter: newRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		loginLimiter:   newRateLimiter(cfg.RateLimit.LoginRPS, cfg.RateLimit.LoginBurst),
	}

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           s.accessLog(s.routes()),
		ReadHeaderTimeout: time.Duration(cfg.Server.ReadHeaderTimeoutSeconds) * time.Second,
		WriteTimeout:      time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	limit := s.rateLimit(s.defaultLimiter)
	limitLogin := s.rateLimit(s.loginLimiter)

	selfService := []middleware{limit}
	if s.cfg.RequireCustomerAuthEnabled() {
		selfService = append(selfService, s.requireAuth)
	}

	// Customers
	mux.Handle("POST /customers", chain(http.HandlerFunc(s.handleCreateCustomer), limit, s.invalidating("customers")))
	mux.Handle("GET /customers", chain(http.HandlerFunc(s.handleListCustomers), limit, s.cached))
	mux.Handle("POST /customers/login", chain(http.HandlerFunc(s.handleLogin), limitLogin))
	mux.Handle("GET /customers/my-tickets", chain(http.HandlerFunc(s.handleMyTickets), limit, s.requireAuth))
	mux.Handle("GET /customers/{id}", chain(http.HandlerFunc(s.handleGetCustomer), limit, s.cached))
	mux.Handle("PUT /customers/{id}", chain(http.HandlerFunc(s.handleUpdateCustomer), append(selfService, s.invalidating("customers"))...))
	mux.Handle("DELETE /customers/{id}", chain(http.HandlerFunc(s.handleDeleteCustomer), append(selfService, s.invalidating("customers"))...))

	// Mechanics
	mux.Handle("POST /mechanics", chain(http.HandlerFunc(s.handleCreateMechanic), limit, s.invalidating("mechanics")))
	mux.Handle("GET /mechanics", chain(http.HandlerFunc(s.handleListMechanics), limit, s.cached))
	mux.Handle("GET /mechanics/by-workload", chain(http.HandlerFunc(s.handleMechanicsByWorkload), limit, s.cached))
	mux.Handle("GET /mechanics/{id}", chain(http.HandlerFunc(s.handleGetMechanic), limit, s.cached))
	mux.Handle("PUT /mechanics/{id}", chain(http.HandlerFunc(s.handleUpdateMechanic), limit, s.invalidating("mechanics")))
	mux.Handle("DELETE /mechanics/{id}", chain(http.HandlerFunc(s.handleDeleteMechanic), limit, s.invalidating("mechanics")))

	// Inventory
	mux.Handle("POST /inventory", chain(http.HandlerFunc(s.handleCreateInventory), limit, s.invalidating("inventory")))
	mux.Handle("GET /inventory", chain(http.HandlerFunc(s.handleListInventory), limit, s.cached))
	mux.Handle("GET /inventory/{id}", chain(http.HandlerFunc(s.handleGetInventory), limit, s.cached))
	mux.Handle("PUT /inventory/{id}", chain(http.HandlerFunc(s.handleUpdateInventory), limit, s.invalidating("inventory", "service-tickets")))
	mux.Handle("DELETE /inventory/{id}", chain(http.HandlerFunc(s.handleDeleteInventory), limit, s.invalidating("inventory", "service-tickets")))

	// Service tickets
	mux.Handle("POST /service-tickets", chain(http.HandlerFunc(s.handleCreateTicket), limit, s.invalidating("service-tickets")))
	mux.Handle("GET /service-tickets", chain(http.HandlerFunc(s.handleListTickets), limit, s.cached))
	mux.Handle("GET /service-tickets/{id}", chain(http.HandlerFunc(s.handleGetTicket), limit, s.cached))
	mux.Handle("PUT /service-tickets/{id}", chain(http.HandlerFunc(s.handleUpdateTicket), limit, s.invalidating("service-tickets")))
	mux.Handle("DELETE /service-tickets/{id}", chain(http.HandlerFunc(s.handleDeleteTicket), limit, s.invalidating("service-tickets", "mechanics")))
	mux.Handle("PUT /service-tickets/{id}/assign-mechanic/{mechanicID}", chain(http.HandlerFunc(s.handleAssignMechanic), limit, s.invalidating("service-tickets", "mechanics")))
	mux.Handle("PUT /service-tickets/{id}/remove-mechanic/{mechanicID}", chain(http.HandlerFunc(s.handleRemoveMechanic), limit, s.invalidating("service-tickets", "mechanics")))
	mux.Handle("PUT /service-tickets/{id}/edit", chain(http.HandlerFunc(s.handleBulkEditTicket), limit, s.invalidating("service-tickets", "mechanics")))
	mux.Handle("PUT /service-tickets/{id}/add-part/{partID}", chain(http.HandlerFunc(s.handleAddPart), limit, s.invalidating("service-tickets")))
	mux.Handle("PUT /service-tickets/{id}/remove-part/{partID}", chain(http.HandlerFunc(s.handleRemovePart), limit, s.invalidating("service-tickets")))
	mux.Handle("GET /service-tickets/customer/{customerID}", chain(http.HandlerFunc(s.handleTicketsByCustomer), limit, s.cached))
	mux.Handle("GET /service-tickets/mechanic/{mechanicID}", chain(http.HandlerFunc(s.handleTicketsByMechanic), limit, s.cached))

	mux.HandleFunc("GET /healthz", s.handleHealth)

	return mux
}

func (s *Server) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler exposes the configured handler for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
