// Package apitest runs an in-memory stand-in for the LegalLink backend so
// integration tests can exercise the real HTTP client against the real
// endpoint surface, including auth and CORS behavior.
package apitest

import (
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Token is the bearer token the fake backend accepts.
const Token = "apitest-valid-token"

// Password is the password Login accepts for any known user.
const Password = "secret"

// Server is the fake backend with its in-memory fixtures.
type Server struct {
	*httptest.Server

	mu           sync.Mutex
	appointments map[string]gin.H
	order        []string
	clients      map[string]gin.H
	cases        map[string]gin.H
	messages     map[string][]gin.H
	lawyers      map[string]gin.H
	user         gin.H
}

// New starts the fake backend. The caller owns the returned server and
// must Close it.
func New() *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{
		appointments: make(map[string]gin.H),
		clients:      make(map[string]gin.H),
		cases:        make(map[string]gin.H),
		messages:     make(map[string][]gin.H),
		lawyers:      make(map[string]gin.H),
		user: gin.H{
			"id":    "u1",
			"name":  "Dana Cho",
			"email": "dana@example.com",
			"role":  "client",
		},
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	engine.POST("/auth/user/login", s.login)

	authed := engine.Group("/", s.requireBearer)
	authed.POST("/auth/user/logout", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	authed.GET("/auth/user/me", func(c *gin.Context) { c.JSON(http.StatusOK, s.snapshotUser()) })
	authed.PUT("/auth/user/me", s.updateProfile)

	authed.GET("/lawyers/appointments/client", s.listAppointments)
	authed.GET("/lawyers/appointments/:id", s.getAppointment)
	authed.DELETE("/lawyers/appointments/:id", s.deleteAppointment)

	authed.GET("/clients", s.listClients)
	authed.POST("/clients", s.createClient)
	authed.GET("/clients/:id", s.getClient)
	authed.PUT("/clients/:id", s.updateClient)
	authed.DELETE("/clients/:id", s.deleteClient)

	authed.POST("/client/cases", s.createCase)
	authed.GET("/client/cases", s.listCases)

	authed.GET("/chat/conversations/:id/messages", s.listMessages)
	authed.POST("/chat/conversations/:id/messages", s.postMessage)

	authed.POST("/lawyers/register", s.registerLawyer)
	authed.GET("/admin/lawyers/pending", s.pendingLawyers)
	authed.POST("/admin/lawyers/:id/verify", s.verifyLawyer)

	s.Server = httptest.NewServer(engine)
	return s
}

// SeedAppointment installs an appointment fixture. Insertion order is the
// list order: seed newest first, the way the production backend responds.
func (s *Server) SeedAppointment(id string, payload gin.H) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.appointments[id]; !exists {
		s.order = append(s.order, id)
	}
	s.appointments[id] = payload
}

// RemoveAppointment drops a fixture, turning fetches for it into 404s.
func (s *Server) RemoveAppointment(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.appointments, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *Server) requireBearer(c *gin.Context) {
	if c.GetHeader("Authorization") != "Bearer "+Token {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
		return
	}
	c.Next()
}

func (s *Server) login(c *gin.Context) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&creds); err != nil || creds.Password != Password {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	user := s.snapshotUser()
	c.JSON(http.StatusOK, gin.H{
		"token": Token,
		"role":  user["role"],
		"user":  user,
	})
}

func (s *Server) snapshotUser() gin.H {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := gin.H{}
	for k, v := range s.user {
		copied[k] = v
	}
	return copied
}

func (s *Server) updateProfile(c *gin.Context) {
	var update struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed profile"})
		return
	}

	s.mu.Lock()
	if update.Name != "" {
		s.user["name"] = update.Name
	}
	if update.Phone != "" {
		s.user["phone"] = update.Phone
	}
	s.mu.Unlock()

	c.JSON(http.StatusOK, s.snapshotUser())
}

func (s *Server) listAppointments(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]gin.H, 0, len(s.order))
	for _, id := range s.order {
		items = append(items, s.appointments[id])
	}
	c.JSON(http.StatusOK, items)
}

func (s *Server) getAppointment(c *gin.Context) {
	s.mu.Lock()
	appt, ok := s.appointments[c.Param("id")]
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "appointment not found"})
		return
	}
	c.JSON(http.StatusOK, appt)
}

func (s *Server) deleteAppointment(c *gin.Context) {
	id := c.Param("id")
	s.mu.Lock()
	_, ok := s.appointments[id]
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "appointment not found"})
		return
	}
	s.RemoveAppointment(id)
	c.Status(http.StatusNoContent)
}

func (s *Server) listClients(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]gin.H, 0, len(s.clients))
	for _, item := range s.clients {
		items = append(items, item)
	}
	c.JSON(http.StatusOK, items)
}

func (s *Server) createClient(c *gin.Context) {
	var body gin.H
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed client"})
		return
	}
	id := uuid.NewString()
	body["id"] = id

	s.mu.Lock()
	s.clients[id] = body
	s.mu.Unlock()
	c.JSON(http.StatusCreated, body)
}

func (s *Server) getClient(c *gin.Context) {
	s.mu.Lock()
	item, ok := s.clients[c.Param("id")]
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "client not found"})
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *Server) updateClient(c *gin.Context) {
	id := c.Param("id")
	var body gin.H
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed client"})
		return
	}

	s.mu.Lock()
	_, ok := s.clients[id]
	if ok {
		body["id"] = id
		s.clients[id] = body
	}
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "client not found"})
		return
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) deleteClient(c *gin.Context) {
	s.mu.Lock()
	delete(s.clients, c.Param("id"))
	s.mu.Unlock()
	c.Status(http.StatusNoContent)
}

func (s *Server) createCase(c *gin.Context) {
	var body gin.H
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed case"})
		return
	}
	if body["practiceArea"] == nil || body["practiceArea"] == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "practice area is required"})
		return
	}

	id := uuid.NewString()
	body["id"] = id
	body["status"] = "open"

	s.mu.Lock()
	s.cases[id] = body
	s.mu.Unlock()
	c.JSON(http.StatusCreated, body)
}

func (s *Server) listCases(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]gin.H, 0, len(s.cases))
	for _, item := range s.cases {
		items = append(items, item)
	}
	c.JSON(http.StatusOK, items)
}

func (s *Server) listMessages(c *gin.Context) {
	s.mu.Lock()
	items := s.messages[c.Param("id")]
	s.mu.Unlock()
	if items == nil {
		items = []gin.H{}
	}
	c.JSON(http.StatusOK, items)
}

func (s *Server) postMessage(c *gin.Context) {
	conversationID := c.Param("id")
	var body struct {
		Body string `json:"body"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Body == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty message"})
		return
	}

	message := gin.H{
		"id":             uuid.NewString(),
		"conversationId": conversationID,
		"sender":         "client",
		"body":           body.Body,
	}
	s.mu.Lock()
	s.messages[conversationID] = append(s.messages[conversationID], message)
	s.mu.Unlock()
	c.JSON(http.StatusCreated, message)
}

func (s *Server) registerLawyer(c *gin.Context) {
	var body gin.H
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed registration"})
		return
	}

	id := uuid.NewString()
	body["id"] = id
	body["verified"] = false

	s.mu.Lock()
	s.lawyers[id] = body
	s.mu.Unlock()
	c.JSON(http.StatusCreated, body)
}

func (s *Server) pendingLawyers(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]gin.H, 0)
	for _, item := range s.lawyers {
		if item["verified"] == false {
			items = append(items, item)
		}
	}
	c.JSON(http.StatusOK, items)
}

func (s *Server) verifyLawyer(c *gin.Context) {
	var body struct {
		Decision string `json:"decision"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed decision"})
		return
	}

	s.mu.Lock()
	item, ok := s.lawyers[c.Param("id")]
	if ok {
		item["verified"] = body.Decision == "approve"
	}
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "lawyer not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
