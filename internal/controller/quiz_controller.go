package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/learnifypk/backend/internal/dto"
	"github.com/learnifypk/backend/internal/service"
	"github.com/rs/zerolog/log"
)

type QuizController struct {
	quizSvc    service.QuizService
	attemptSvc service.AttemptService
}

func NewQuizController(quizSvc service.QuizService, attemptSvc service.AttemptService) *QuizController {
	return &QuizController{quizSvc: quizSvc, attemptSvc: attemptSvc}
}

func (ctrl *QuizController) RegisterRoutes(api *gin.RouterGroup) {
	quizzes := api.Group("/quizzes")
	quizzes.GET("", ctrl.ListQuizzesHandler)
	quizzes.POST("/:quiz_id/start", ctrl.StartQuizHandler)

	attempts := api.Group("/attempts")
	attempts.POST("/answer", ctrl.SubmitAnswerHandler)
	attempts.POST("/finalize", ctrl.FinalizeHandler)

	results := api.Group("/results")
	results.GET("", ctrl.ListResultsHandler)
	results.GET("/:attempt_id", ctrl.GetResultHandler)
}

func (ctrl *QuizController) ListQuizzesHandler(c *gin.Context) {
	quizzes, err := ctrl.quizSvc.ListQuizzes()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quizzes)
}

// StartQuizHandler works for guests too: they get a preview instead of an
// attempt.
func (ctrl *QuizController) StartQuizHandler(c *gin.Context) {
	quizID, err := strconv.ParseUint(c.Param("quiz_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid quiz id"})
		return
	}

	var req dto.StartQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		log.Warn().Err(err).Msg("Failed to bind StartQuizRequest")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		return
	}

	resp, err := ctrl.quizSvc.StartQuiz(currentUser(c), uint(quizID), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (ctrl *QuizController) SubmitAnswerHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	var req dto.SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind SubmitAnswerRequest")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		return
	}

	resp, err := ctrl.attemptSvc.SubmitAnswer(user, req)
	if err != nil {
		respondError(c, err)
		return
	}
	if !resp.Saved {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (ctrl *QuizController) FinalizeHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	var req dto.FinalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind FinalizeRequest")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		return
	}

	resp, err := ctrl.attemptSvc.Finalize(user, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (ctrl *QuizController) ListResultsHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	results, err := ctrl.attemptSvc.ListResults(user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func (ctrl *QuizController) GetResultHandler(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	detail, err := ctrl.attemptSvc.GetResult(user, c.Param("attempt_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}
