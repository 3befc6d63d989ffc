package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/gin-gonic/gin"

	"salescrm/internal/repositories"
	"salescrm/internal/services"
)

const btnMyLeads = "📋 My leads"

type IntegrationsHandler struct {
	TG        *services.TelegramService
	LinksRepo repositories.TelegramLinkRepository
	UsersRepo repositories.UserRepository
	LeadsRepo *repositories.LeadRepository
}

func NewIntegrationsHandler(
	tg *services.TelegramService,
	links repositories.TelegramLinkRepository,
	users repositories.UserRepository,
	leads *repositories.LeadRepository,
) *IntegrationsHandler {
	return &IntegrationsHandler{TG: tg, LinksRepo: links, UsersRepo: users, LeadsRepo: leads}
}

type tgUpdate struct {
	Message *struct {
		Text string `json:"text"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
	} `json:"message"`
}

func normalizeLinkCode(s string) (string, bool) {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "\"'`<>.,;:()[]{}\\")
	s = strings.ToUpper(strings.TrimSpace(s))

	var b strings.Builder
	for _, r := range s {
		if unicode.Is(unicode.Hex_Digit, r) {
			b.WriteRune(r)
		}
	}
	code := b.String()
	if len(code) != 32 {
		return "", false
	}
	return code, true
}

// Webhook handles bot updates. Always answers 200 so Telegram does not
// retry; failures are logged instead.
func (h *IntegrationsHandler) Webhook(c *gin.Context) {
	if h.TG == nil {
		c.Status(http.StatusOK)
		return
	}

	var up tgUpdate
	if err := c.ShouldBindJSON(&up); err != nil || up.Message == nil {
		if err != nil {
			log.Printf("[tg][webhook] bind json error: %v", err)
		}
		c.Status(http.StatusOK)
		return
	}

	text := strings.TrimSpace(up.Message.Text)
	chatID := up.Message.Chat.ID

	switch {
	case strings.HasPrefix(text, "/start"):
		_ = h.TG.SendReplyKeyboard(chatID,
			"Hi! To link your account, send:\n<code>/link &lt;code&gt;</code>",
			[][]string{{btnMyLeads}},
		)

	case strings.HasPrefix(text, "/link"):
		raw := strings.TrimSpace(strings.TrimPrefix(text, "/link"))
		code, ok := normalizeLinkCode(raw)
		if !ok {
			_ = h.TG.SendMessage(chatID, "Invalid code format. Copy and send exactly 32 hex characters:\n<code>/link 0123456789ABCDEF0123456789ABCDEF</code>")
			break
		}

		link, err := h.LinksRepo.UseByCode(c.Request.Context(), code)
		if err != nil {
			log.Printf("[tg][webhook] UseByCode failed (code=%q): %v", code, err)
			_ = h.TG.SendMessage(chatID, "Code is invalid or expired. Generate a new one in your account settings.")
			break
		}

		if err := h.UsersRepo.UpdateTelegramLink(link.UserID, chatID, true); err != nil {
			log.Printf("[tg][webhook] UpdateTelegramLink failed: userID=%d chatID=%d err=%v", link.UserID, chatID, err)
			_ = h.TG.SendMessage(chatID, "Could not link the account, try again later.")
			break
		}
		_ = h.TG.SendReplyKeyboard(chatID,
			"Done! Your account is linked. You will be notified when leads are assigned to you.",
			[][]string{{btnMyLeads}},
		)

	default:
		if text == btnMyLeads {
			h.sendMyLeadsDigest(c, chatID)
			break
		}
		_ = h.TG.SendMessage(chatID, "Unknown command. Use <code>/link &lt;code&gt;</code> or the menu button.")
	}

	c.Status(http.StatusOK)
}

// @Summary      Request a Telegram link code
// @Tags         Integrations
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /integrations/telegram/link [post]
func (h *IntegrationsHandler) RequestTelegramLink(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "rng failed"})
		return
	}
	code := strings.ToUpper(hex.EncodeToString(buf))

	link, err := h.LinksRepo.Create(c.Request.Context(), userID, code, 30*time.Minute)
	if err != nil {
		log.Printf("[tg][link] create failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot create link"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":       link.Code,
		"expires_at": link.ExpiresAt,
		"hint":       "Open a chat with the bot and send: /link " + link.Code,
	})
}

func (h *IntegrationsHandler) sendMyLeadsDigest(c *gin.Context, chatID int64) {
	u, err := h.UsersRepo.GetByChatID(c.Request.Context(), chatID)
	if err != nil || u == nil {
		_ = h.TG.SendMessage(chatID, "Could not find a linked account. Link it with /link first.")
		return
	}

	leads, err := h.LeadsRepo.ListByAssignee(u.ID, 10, 0)
	if err != nil {
		log.Printf("[tg][digest] leads fetch failed for userID=%d: %v", u.ID, err)
		_ = h.TG.SendMessage(chatID, "Could not load your leads.")
		return
	}
	if len(leads) == 0 {
		_ = h.TG.SendMessage(chatID, "You have no assigned leads. 👍")
		return
	}

	var b strings.Builder
	b.WriteString("📋 <b>Your latest leads</b>\n")
	for _, l := range leads {
		b.WriteString("• " + l.Phone + " (" + string(l.Status) + ", " + string(l.Priority) + ")\n")
	}
	b.WriteString("\nShowing up to " + strconv.Itoa(len(leads)) + " most recent.")
	_ = h.TG.SendReplyKeyboard(chatID, b.String(), [][]string{{btnMyLeads}})
}
