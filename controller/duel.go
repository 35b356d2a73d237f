package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"

	"go-duel/dto"
	"go-duel/duel"
	"go-duel/entities"
	"go-duel/middleware"
	"go-duel/service"
	"go-duel/utils"
)

type DuelController struct {
	svc *service.DuelService
}

func NewDuelController(svc *service.DuelService) *DuelController {
	return &DuelController{svc: svc}
}

// writeError 把对局错误映射为 HTTP 状态码
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := string(duel.CodeOf(err))
	switch {
	case errors.Is(err, service.ErrDuelNotFound):
		status, code = http.StatusNotFound, "DUEL_NOT_FOUND"
	case errors.Is(err, service.ErrForbidden):
		status, code = http.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, duel.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, duel.ErrInvalidHandSize),
		errors.Is(err, duel.ErrInvalidSelection),
		errors.Is(err, duel.ErrNoSelection):
		status = http.StatusBadRequest
	case errors.Is(err, duel.ErrInvalidPhase),
		errors.Is(err, duel.ErrRoundAlreadyResolved):
		status = http.StatusConflict
	}
	if code == "" {
		code = "INTERNAL"
	}
	c.JSON(status, gin.H{"error": code, "message": err.Error()})
}

func (ctl *DuelController) CreateDuel(c *gin.Context) {
	var req dto.CreateDuelRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_REQUEST", "message": err.Error()})
			return
		}
	}
	// 鉴权开启时以 token 中的用户为准
	if userID := c.GetString(middleware.ContextUserID); userID != "" {
		req.UserID = userID
	}

	info, err := ctl.svc.CreateDuel(c.Request.Context(), req.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status_code": http.StatusOK,
		"msg":         "对局创建成功",
		"data":        dto.CreateDuelResponse{DuelID: info.DuelID},
	})
}

// RequireOwner 鉴权开启时，只允许对局创建者访问 /duel/:duelID 下的接口
func (ctl *DuelController) RequireOwner(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		c.Next()
		return
	}
	if err := ctl.svc.Authorize(c.Param("duelID"), userID); err != nil {
		writeError(c, err)
		c.Abort()
		return
	}
	c.Next()
}

func (ctl *DuelController) GetDuelList(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	duels, err := ctl.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL", "message": "获取对局列表失败"})
		return
	}
	if userID := c.GetString(middleware.ContextUserID); userID != "" {
		duels = slices.DeleteFunc(duels, func(d entities.DuelInfo) bool { return d.UserID != userID })
	}
	c.JSON(http.StatusOK, gin.H{
		"status_code": http.StatusOK,
		"msg":         "获取成功",
		"data":        dto.DuelList{Duels: utils.SafeSlice(duels, limit)},
	})
}

func (ctl *DuelController) GetDuel(c *gin.Context) {
	view, err := ctl.svc.View(c.Request.Context(), c.Param("duelID"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (ctl *DuelController) StartRound(c *gin.Context) {
	var req dto.StartRoundRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_REQUEST", "message": err.Error()})
			return
		}
	}
	ctl.respond(c)(ctl.svc.StartRound(c.Request.Context(), c.Param("duelID"), req.HandSize))
}

func (ctl *DuelController) SelectCard(c *gin.Context) {
	var req dto.SelectCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_REQUEST", "message": "缺少必要字段 cardId"})
		return
	}
	ctl.respond(c)(ctl.svc.Select(c.Request.Context(), c.Param("duelID"), *req.CardID))
}

func (ctl *DuelController) Confirm(c *gin.Context) {
	ctl.respond(c)(ctl.svc.Confirm(c.Request.Context(), c.Param("duelID")))
}

func (ctl *DuelController) ResetRound(c *gin.Context) {
	ctl.respond(c)(ctl.svc.ResetRound(c.Request.Context(), c.Param("duelID")))
}

func (ctl *DuelController) Abandon(c *gin.Context) {
	ctl.respond(c)(ctl.svc.Abandon(c.Request.Context(), c.Param("duelID")))
}

func (ctl *DuelController) ResetScore(c *gin.Context) {
	ctl.respond(c)(ctl.svc.ResetScore(c.Request.Context(), c.Param("duelID")))
}

func (ctl *DuelController) DeleteDuel(c *gin.Context) {
	if err := ctl.svc.Delete(c.Request.Context(), c.Param("duelID")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status_code": http.StatusOK,
		"msg":         "对局删除成功",
	})
}

func (ctl *DuelController) GetCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, service.CatalogView(ctl.svc.Catalog()))
}

func (ctl *DuelController) respond(c *gin.Context) func(dto.RoundView, error) {
	return func(view dto.RoundView, err error) {
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}
