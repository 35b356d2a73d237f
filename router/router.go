package router

import (
	"go-duel/controller"
	"go-duel/ws"

	"github.com/gin-gonic/gin"
)

func InitRouter(r *gin.Engine, ctl *controller.DuelController, hub *ws.Hub, auth gin.HandlerFunc) {
	r.GET("/catalog", ctl.GetCatalog)

	// 对局接口路由
	api := r.Group("/duel", auth)
	{
		api.POST("/create", ctl.CreateDuel)
		api.GET("/list", ctl.GetDuelList)
	}

	owned := api.Group("/:duelID", ctl.RequireOwner)
	{
		owned.GET("", ctl.GetDuel)
		owned.DELETE("", ctl.DeleteDuel)
		owned.POST("/start", ctl.StartRound)
		owned.POST("/select", ctl.SelectCard)
		owned.POST("/confirm", ctl.Confirm)
		owned.POST("/reset", ctl.ResetRound)
		owned.POST("/abandon", ctl.Abandon)
		owned.POST("/score/reset", ctl.ResetScore)
	}

	// WebSocket 路由，握手时由 hub 自行校验 token
	r.GET("/ws", hub.HandleWebSocket)
}
