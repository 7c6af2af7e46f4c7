// Package httpapi exposes the quiz and account repositories over HTTP.
package httpapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nisimpson/geoquiz"
	"github.com/nisimpson/geoquiz/identity"
)

// QuizService is the quiz surface used by the handlers. It is implemented
// by *geoquiz.QuizRepository.
type QuizService interface {
	ListQuizzes(ctx context.Context) ([]geoquiz.Quiz, error)
	CreateQuiz(ctx context.Context, name, description, ownerID string) (*geoquiz.Quiz, error)
	GetQuiz(ctx context.Context, quizID string) (*geoquiz.QuizDetail, error)
	DeleteQuiz(ctx context.Context, quizID, requesterID string) (int, error)
	AddQuestion(ctx context.Context, in geoquiz.NewQuestion) (*geoquiz.Question, error)
}

// AccountService is implemented by *geoquiz.AccountRepository.
type AccountService interface {
	Register(ctx context.Context, username, password string) (string, error)
	VerifyCredentials(ctx context.Context, username, password string) (geoquiz.Principal, error)
}

// TokenService is implemented by *identity.Service.
type TokenService interface {
	Issue(userID, username string) (string, error)
	Validate(token string) (identity.Claims, error)
}

// Handler serves the HTTP API.
type Handler struct {
	quizzes  QuizService
	accounts AccountService
	tokens   TokenService
	logger   *slog.Logger
}

// NewHandler returns a Handler. A nil logger discards output.
func NewHandler(quizzes QuizService, accounts AccountService, tokens TokenService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{
		quizzes:  quizzes,
		accounts: accounts,
		tokens:   tokens,
		logger:   logger,
	}
}

// Router builds the gin engine with every route registered.
func (h *Handler) Router() *gin.Engine {
	router := gin.New()
	router.Use(requestLogger(h.logger), gin.Recovery(), cors())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := router.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
	}

	quizzes := router.Group("/quizzes")
	{
		quizzes.GET("", h.ListQuizzes)
		quizzes.GET("/:quizId", h.GetQuiz)

		protected := quizzes.Group("", requireAuth(h.tokens))
		protected.POST("", h.CreateQuiz)
		protected.DELETE("/:quizId", h.DeleteQuiz)
		protected.POST("/:quizId/questions", h.AddQuestion)
	}

	return router
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register handles POST /auth/register.
func (h *Handler) Register(c *gin.Context) {
	var req credentialsRequest
	if !h.bind(c, &req) {
		return
	}

	userID, err := h.accounts.Register(c.Request.Context(), req.Username, req.Password)
	if geoquiz.KindOf(err) == geoquiz.KindValidation {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	} else if err != nil {
		h.internalError(c, "Could not create user", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"userId":  userID,
	})
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req credentialsRequest
	if !h.bind(c, &req) {
		return
	}

	principal, err := h.accounts.VerifyCredentials(c.Request.Context(), req.Username, req.Password)
	switch geoquiz.KindOf(err) {
	case "":
		if err != nil {
			h.internalError(c, "Could not login", err)
			return
		}
	case geoquiz.KindValidation:
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	case geoquiz.KindAuthentication:
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	default:
		h.internalError(c, "Could not login", err)
		return
	}

	token, err := h.tokens.Issue(principal.UserID, principal.Username)
	if err != nil {
		h.internalError(c, "Could not login", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// ListQuizzes handles GET /quizzes.
func (h *Handler) ListQuizzes(c *gin.Context) {
	quizzes, err := h.quizzes.ListQuizzes(c.Request.Context())
	if err != nil {
		h.internalError(c, "Could not get quizzes", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"quizzes": quizzes})
}

type createQuizRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateQuiz handles POST /quizzes.
func (h *Handler) CreateQuiz(c *gin.Context) {
	var req createQuizRequest
	if !h.bind(c, &req) {
		return
	}

	quiz, err := h.quizzes.CreateQuiz(c.Request.Context(), req.Name, req.Description, userID(c))
	if err != nil {
		h.fail(c, "Could not create quiz", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Quiz created successfully",
		"quizId":    quiz.ID,
		"name":      quiz.Name,
		"createdBy": quiz.OwnerID,
	})
}

// GetQuiz handles GET /quizzes/:quizId.
func (h *Handler) GetQuiz(c *gin.Context) {
	detail, err := h.quizzes.GetQuiz(c.Request.Context(), c.Param("quizId"))
	if err != nil {
		h.fail(c, "Could not retrieve quiz", err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// DeleteQuiz handles DELETE /quizzes/:quizId.
func (h *Handler) DeleteQuiz(c *gin.Context) {
	quizID := c.Param("quizId")

	deleted, err := h.quizzes.DeleteQuiz(c.Request.Context(), quizID, userID(c))
	if err != nil {
		h.fail(c, "Could not delete quiz", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":          "Quiz and all questions deleted successfully",
		"quizId":           quizID,
		"deletedQuestions": deleted,
	})
}

type addQuestionRequest struct {
	Question  string             `json:"question"`
	Answer    string             `json:"answer"`
	Longitude geoquiz.Coordinate `json:"longitude"`
	Latitude  geoquiz.Coordinate `json:"latitude"`
}

// AddQuestion handles POST /quizzes/:quizId/questions.
func (h *Handler) AddQuestion(c *gin.Context) {
	var req addQuestionRequest
	if !h.bind(c, &req) {
		return
	}

	question, err := h.quizzes.AddQuestion(c.Request.Context(), geoquiz.NewQuestion{
		QuizID:      c.Param("quizId"),
		Question:    req.Question,
		Answer:      req.Answer,
		Longitude:   req.Longitude,
		Latitude:    req.Latitude,
		RequesterID: userID(c),
	})
	if err != nil {
		h.fail(c, "Could not add question", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Question added successfully",
		"questionId": question.ID,
		"question":   question.Question,
		"answer":     question.Answer,
		"longitude":  nullable(question.Longitude),
		"latitude":   nullable(question.Latitude),
	})
}

// bind decodes a JSON body into req. An empty body leaves req zeroed so the
// repository reports the missing fields.
func (h *Handler) bind(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
	return false
}

// nullable returns nil for NaN and infinities, which JSON cannot encode.
func nullable(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
