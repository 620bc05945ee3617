package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/vital-identity/internal/application"
	"github.com/oksasatya/vital-identity/pkg/response"
)

type FAQHandler struct {
	Svc    FAQUseCases
	Logger *logrus.Logger
}

func NewFAQHandler(svc FAQUseCases, logger *logrus.Logger) *FAQHandler {
	return &FAQHandler{Svc: svc, Logger: logger}
}

type faqRequest struct {
	Question string `json:"question" binding:"required"`
	Answer   string `json:"answer" binding:"required"`
	Category string `json:"category" binding:"required"`
}

func (r faqRequest) input() application.FAQInput {
	return application.FAQInput{Question: r.Question, Answer: r.Answer, Category: r.Category}
}

// List handles GET /faq/?category=.
func (h *FAQHandler) List(c *gin.Context) {
	list, err := h.Svc.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	out := make([]faqView, 0, len(list))
	for i := range list {
		out = append(out, toFAQView(&list[i]))
	}
	response.Success(c, http.StatusOK, out, "faqs", map[string]any{"count": len(out)})
}

func (h *FAQHandler) Get(c *gin.Context) {
	f, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toFAQView(f), "faq", nil)
}

func (h *FAQHandler) Create(c *gin.Context) {
	var req faqRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	f, err := h.Svc.Create(c.Request.Context(), req.input())
	if err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toFAQView(f), "faq created", nil)
}

func (h *FAQHandler) Update(c *gin.Context) {
	var req faqRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	f, err := h.Svc.Update(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toFAQView(f), "faq updated", nil)
}

func (h *FAQHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
