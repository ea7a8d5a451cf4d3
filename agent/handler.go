package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tmc/langchaingo/chains"
)

type WebSocketsMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

func (a *Agent) Run() error {
	r := gin.Default()

	r.StaticFile("/", "web/index.html")

	r.GET("/chat", func(ctx *gin.Context) {
		w, req := ctx.Writer, ctx.Request
		c, err := a.upgrader.Upgrade(w, req, nil)
		if err != nil {
			log.Println("upgrade:", err)
			return
		}
		defer c.Close()

		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				if err != io.EOF {
					slog.Debug("ws connection closed", "error", err)
				}
				return
			}

			answer, err := a.Chat(ctx.Request.Context(), string(message))
			if err != nil {
				slog.Error("agent run failed", "error", err)
				answer = "Sorry, I couldn't process that request."
			}

			if err := c.WriteJSON(WebSocketsMessage{Type: "chat", Data: answer}); err != nil {
				slog.Error("failed to write to ws connection", "error", err)
				return
			}
		}
	})

	r.POST("/chat", func(ctx *gin.Context) {
		var req ChatRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		answer, err := a.Chat(ctx.Request.Context(), req.Message)
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		ctx.JSON(http.StatusOK, gin.H{"answer": answer})
	})

	r.GET("/tools", func(ctx *gin.Context) {
		type toolInfo struct {
			Name        string `json:"name"`
			Description string `json:"description"`
		}

		infos := make([]toolInfo, 0)
		for _, t := range a.registry.Tools() {
			infos = append(infos, toolInfo{Name: t.Name(), Description: t.Description()})
		}

		ctx.JSON(http.StatusOK, infos)
	})

	// Direct tool invocation, bypassing the LLM. Handy for debugging and
	// for non-conversational clients.
	r.POST("/tools/:name", func(ctx *gin.Context) {
		body, err := io.ReadAll(ctx.Request.Body)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		out, err := a.registry.Call(ctx.Request.Context(), ctx.Param("name"), string(body))
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		ctx.Data(http.StatusOK, "application/json", []byte(out))
	})

	return r.Run(a.config.Server.Address())
}

// Chat runs one user turn through the agent executor.
func (a *Agent) Chat(ctx context.Context, input string) (string, error) {
	return chains.Run(ctx, a.executor, input)
}
