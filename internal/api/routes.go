package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"storefront-assist/internal/ai"
	"storefront-assist/internal/catalog"
	"storefront-assist/internal/knowledge"
	"storefront-assist/internal/returns"
	"storefront-assist/internal/store"
	"storefront-assist/internal/util"
	"storefront-assist/internal/vision"
)

// Config defines server dependencies.
type Config struct {
	DBPath         string
	CatalogPath    string
	TopicsPath     string
	AllowedOrigins []string
	SilentDB       bool
	AssistantCfg   ai.Config
	VisionCfg      vision.Config
	DisableAI      bool
}

// Server wires HTTP handlers with persistence, the catalog, and the decision
// engines.
type Server struct {
	db             *store.Database
	catalog        *catalog.Store
	responder      *knowledge.Responder
	assistant      ai.Assistant
	analyzer       vision.Analyzer
	notifier       *ReturnNotifier
	allowedOrigins []string
}

// NewServer constructs the API server.
func NewServer(cfg Config) (*Server, error) {
	if cfg.DBPath == "" {
		return nil, errors.New("db path required")
	}
	if cfg.CatalogPath == "" {
		return nil, errors.New("catalog path required")
	}

	db, err := store.Open(cfg.DBPath, cfg.SilentDB)
	if err != nil {
		return nil, err
	}
	if err := db.Seed(); err != nil {
		return nil, fmt.Errorf("seed orders: %w", err)
	}

	topics, err := knowledge.LoadTopics(cfg.TopicsPath)
	if err != nil {
		return nil, fmt.Errorf("load policy topics: %w", err)
	}

	catalogStore := catalog.NewStore(cfg.CatalogPath)
	if _, err := catalogStore.Products(); err != nil {
		logrus.WithError(err).Warn("catalog preload failed")
	}

	var assistant ai.Assistant
	if cfg.DisableAI {
		logrus.Info("assistant disabled via configuration")
	} else if client, err := ai.NewClient(cfg.AssistantCfg); err == nil {
		assistant = ai.WithFallback(client, ai.StaticResponder{})
	} else if errors.Is(err, ai.ErrDisabled) {
		logrus.Info("assistant disabled - no API key configured")
	} else {
		return nil, fmt.Errorf("assistant client: %w", err)
	}

	var analyzer vision.Analyzer
	if cfg.DisableAI {
		logrus.Info("vision analyzer disabled via configuration")
	} else if client, err := vision.NewClient(cfg.VisionCfg); err == nil {
		analyzer = client
		logrus.Info("vision analyzer enabled")
	} else if errors.Is(err, vision.ErrDisabled) {
		logrus.Info("vision analyzer disabled - no API key configured")
	} else {
		return nil, fmt.Errorf("vision client: %w", err)
	}

	return &Server{
		db:             db,
		catalog:        catalogStore,
		responder:      knowledge.NewResponder(catalogStore, topics),
		assistant:      assistant,
		analyzer:       analyzer,
		notifier:       NewReturnNotifier(),
		allowedOrigins: cfg.AllowedOrigins,
	}, nil
}

// Router configures gin routes.
func (s *Server) Router() (*gin.Engine, error) {
	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowCredentials = true
	if len(s.allowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = s.allowedOrigins
	}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	corsCfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	r.Use(cors.New(corsCfg))

	r.GET("/api/healthz", s.handleHealth)
	r.GET("/api/config", s.handleConfig)

	api := r.Group("/api")
	{
		api.GET("/orders/track", s.handleTrackOrder)
		api.POST("/knowledge/search", s.handleKnowledgeSearch)
		api.POST("/returns", s.handleProcessReturn)
		api.GET("/returns", s.handleReturnsHistory)
		api.GET("/returns/stream", s.handleReturnsStream)
	}

	return r, nil
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleConfig(c *gin.Context) {
	stats, err := s.responder.Stats()
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}
	ordersCount, err := s.db.CountOrders()
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"catalog":           stats,
		"orders":            ordersCount,
		"assistant_enabled": s.assistant != nil && s.assistant.Enabled(),
		"vision_enabled":    s.analyzer != nil && s.analyzer.Enabled(),
	})
}

func (s *Server) handleTrackOrder(c *gin.Context) {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		s.renderError(c, http.StatusBadRequest, errors.New("email is required"))
		return
	}

	order, err := s.db.GetOrderByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.renderError(c, http.StatusNotFound, fmt.Errorf(
				"I couldn't find any orders associated with %s. Please check the email address or contact support.", email))
		} else {
			s.renderError(c, http.StatusInternalServerError, err)
		}
		return
	}
	c.JSON(http.StatusOK, TrackingFromModel(*order))
}

func (s *Server) handleKnowledgeSearch(c *gin.Context) {
	var req KnowledgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		s.renderError(c, http.StatusBadRequest, errors.New("query is required"))
		return
	}

	timer := util.StartTimer()
	answer, err := s.responder.Respond(query)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}

	resp := KnowledgeResponse{Message: answer.Message, Matches: answer.Matches}
	if s.assistant != nil && s.assistant.Enabled() {
		if payload, err := json.Marshal(answer); err == nil {
			reply, replyErr := s.assistant.Reply(c.Request.Context(), ai.ReplyInput{
				UserMessage: query,
				Tool:        "search_knowledge",
				ResultJSON:  string(payload),
				Fallback:    answer.Message,
			})
			if replyErr == nil {
				resp.Reply = reply
			} else if !errors.Is(replyErr, ai.ErrDisabled) {
				logrus.WithError(replyErr).Warn("assistant reply failed")
			}
		}
	}

	logrus.WithFields(logrus.Fields{
		"query":       query,
		"matches":     len(resp.Matches),
		"duration_ms": timer.ElapsedMs(),
	}).Info("knowledge query answered")
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleProcessReturn(c *gin.Context) {
	var req ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}
	req.OrderID = strings.TrimSpace(req.OrderID)
	if req.OrderID == "" {
		s.renderError(c, http.StatusBadRequest, errors.New("order_id is required"))
		return
	}

	timer := util.StartTimer()
	orderValue, known := s.db.OrderValue(req.OrderID)
	if !known {
		logrus.WithField("order_id", req.OrderID).Info("unknown order id, value synthesized")
	}

	input := s.buildPolicyInput(c, req, orderValue)
	decision := returns.Evaluate(input)
	requestID := uuid.NewString()

	dto := DecisionDTO(requestID, decision)
	if err := s.db.SaveReturnDecision(DecisionModel(requestID, decision)); err != nil {
		logrus.WithError(err).WithField("order_id", req.OrderID).Warn("persist return decision")
	}

	s.notifier.Broadcast(ReturnEvent{
		Type:      "decision",
		RequestID: requestID,
		OrderID:   req.OrderID,
		Outcome:   string(decision.Outcome),
		Decision:  &dto,
	})

	logrus.WithFields(logrus.Fields{
		"order_id":    req.OrderID,
		"outcome":     decision.Outcome,
		"trust_score": decision.TrustScore,
		"flags":       len(decision.SuspiciousFlags),
		"duration_ms": timer.ElapsedMs(),
	}).Info("return request decided")
	c.JSON(http.StatusOK, dto)
}

// buildPolicyInput resolves the trust assessment for a return request. A
// failed or unavailable analysis degrades to default trust with an appended
// flag; it never blocks the decision.
func (s *Server) buildPolicyInput(c *gin.Context, req ReturnRequest, orderValue float64) returns.Input {
	if !req.HasImage {
		return returns.DefaultInput(req.OrderID, req.Reason, orderValue, false)
	}

	if s.analyzer == nil || !s.analyzer.Enabled() || strings.TrimSpace(req.Image) == "" {
		logrus.WithField("order_id", req.OrderID).Warn("image supplied but analysis unavailable")
		return returns.DefaultInput(req.OrderID, req.Reason, orderValue, true)
	}

	assessment, err := s.analyzer.Analyze(c.Request.Context(), req.Image)
	if err != nil {
		logrus.WithError(err).WithField("order_id", req.OrderID).Warn("vision analysis failed")
		return returns.DefaultInput(req.OrderID, req.Reason, orderValue, true)
	}

	return returns.Input{
		OrderID:         req.OrderID,
		Reason:          req.Reason,
		OrderValue:      orderValue,
		Severity:        assessment.Severity,
		TrustScore:      assessment.TrustScore,
		SuspiciousFlags: assessment.SuspiciousFlags,
		Assessment:      &assessment,
	}
}

func (s *Server) handleReturnsHistory(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	if page < 0 {
		page = 0
	}
	pageSize, _ := strconv.Atoi(c.Query("pageSize"))
	if pageSize <= 0 {
		pageSize = 25
	}

	rows, total, err := s.db.ListReturnDecisions(page*pageSize, pageSize)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}
	dtos := make([]ReturnDecisionDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, DecisionFromModel(row))
	}
	c.JSON(http.StatusOK, ReturnsHistoryResponse{Items: dtos, Total: total})
}

func (s *Server) handleReturnsStream(c *gin.Context) {
	upgrader := websocket.Upgrader{
		HandshakeTimeout:  5 * time.Second,
		EnableCompression: true,
		CheckOrigin: func(r *http.Request) bool {
			if len(s.allowedOrigins) == 0 {
				return true
			}
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			for _, allowed := range s.allowedOrigins {
				if strings.EqualFold(origin, allowed) {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("upgrade websocket")
		return
	}

	client := s.notifier.Register(conn)
	logrus.WithField("remote", conn.RemoteAddr().String()).Info("returns websocket connected")
	defer s.notifier.Unregister(client)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.WithField("remote", conn.RemoteAddr().String()).Info("returns websocket closed")
			} else {
				logrus.WithError(err).Warn("returns websocket unexpected close")
			}
			break
		}
	}
}

func (s *Server) renderError(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"error": err.Error()})
}
