package actions

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dhiraj-001/MLM-sub000/model"
)

func (actions *Actions) GetQuizStatus(c *gin.Context) {
	userID, _ := getUserID(c)
	status, err := actions.service.QuizStatus(c.Request.Context(), userID)
	if err != nil {
		abortWithServiceError(c, err, "quiz:status")
		return
	}
	c.JSON(http.StatusOK, status)
}

// GetQuizQuestions godoc
// swagger:route GET /quiz/questions quiz get_questions
// Get quiz questions
//
// Returns the questions of the day without their answers. The first call of the day starts the timer.
//
//	Security:
//	  UserToken:
//
//	Responses:
//	  200: QuizQuestionsResponse
//	  403: RequestErrorResp
//	  422: RequestErrorResp
func (actions *Actions) GetQuizQuestions(c *gin.Context) {
	userID, _ := getUserID(c)
	data, err := actions.service.GetQuizQuestions(c.Request.Context(), userID)
	if err != nil {
		abortWithServiceError(c, err, "quiz:questions")
		return
	}
	c.JSON(http.StatusOK, data)
}

// SubmitQuiz godoc
// swagger:route POST /quiz/submit quiz submit_quiz
// Submit quiz
//
// Scores the answers and credits the reward. A second submission on the same day returns the first result.
//
//	Consumes:
//	- application/json
//
//	Responses:
//	  200: QuizResult
//	  400: RequestErrorResp
//	  422: RequestErrorResp
func (actions *Actions) SubmitQuiz(c *gin.Context) {
	userID, _ := getUserID(c)
	request := model.QuizSubmitRequest{}
	if err := c.ShouldBind(&request); err != nil {
		abortWithError(c, BadRequest, err.Error())
		return
	}
	result, err := actions.service.SubmitQuiz(c.Request.Context(), userID, request.Answers)
	if err != nil {
		abortWithServiceError(c, err, "quiz:submit")
		return
	}
	c.JSON(http.StatusOK, result)
}
