package telegram

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/sushrutsadana/movieagent2/internal/agent"
	"github.com/sushrutsadana/movieagent2/internal/domain"
	"github.com/sushrutsadana/movieagent2/internal/index"
)

type recordingAPI struct {
	sent []tgbotapi.Chattable
}

func (r *recordingAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	r.sent = append(r.sent, c)
	return tgbotapi.Message{}, nil
}

func (r *recordingAPI) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return nil
}

func (r *recordingAPI) StopReceivingUpdates() {}

type stubLLM struct {
	intentJSON string
	answer     string
}

func (s *stubLLM) Complete(context.Context, string, string) (string, error) {
	return s.answer, nil
}

func (s *stubLLM) CompleteJSON(context.Context, string, string) (string, error) {
	return s.intentJSON, nil
}

type stubRetriever struct {
	err error
}

func (s *stubRetriever) Query(context.Context, string, int) ([]index.Scored, error) {
	return nil, s.err
}

func newTestBot(llm agent.LLM, retriever agent.Retriever) (*Bot, *recordingAPI) {
	api := &recordingAPI{}
	svc := agent.New(llm, retriever, nil, nil, 5)
	return &Bot{
		api:        api,
		agent:      svc,
		maxHistory: 10,
		logger:     zap.NewNop(),
		histories:  make(map[int64][]agent.Turn),
	}, api
}

func textMessage(chatID int64, text string) *tgbotapi.Message {
	return &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: chatID}, Text: text}
}

func startCommand(chatID int64) *tgbotapi.Message {
	msg := textMessage(chatID, "/start")
	msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: 6}}
	return msg
}

func sentText(t *testing.T, c tgbotapi.Chattable) (int64, string) {
	t.Helper()
	mc, ok := c.(tgbotapi.MessageConfig)
	if !ok {
		t.Fatalf("sent %T, want tgbotapi.MessageConfig", c)
	}
	return mc.ChatID, mc.Text
}

func TestHandleMessage_OneVerbatimReplyPerMessage(t *testing.T) {
	answer := "Moana 2 is playing at PVR Forum Mall at 18:30."
	bot, api := newTestBot(
		&stubLLM{intentJSON: `{"intent": "general"}`, answer: answer},
		&stubRetriever{},
	)

	bot.handleMessage(context.Background(), textMessage(42, "where is moana 2 playing"))

	if len(api.sent) != 1 {
		t.Fatalf("expected exactly 1 reply, got %d", len(api.sent))
	}
	chatID, text := sentText(t, api.sent[0])
	if chatID != 42 {
		t.Errorf("reply chat id = %d, want 42", chatID)
	}
	if text != answer {
		t.Errorf("reply must carry the agent's text unmodified:\ngot  %q\nwant %q", text, answer)
	}

	history := bot.histories[42]
	if len(history) != 1 || history[0].Bot != answer {
		t.Errorf("turn not recorded in history: %+v", history)
	}
}

func TestHandleMessage_StartResetsHistoryAndWelcomes(t *testing.T) {
	bot, api := newTestBot(&stubLLM{}, &stubRetriever{})
	bot.histories[7] = []agent.Turn{{User: "old", Bot: "old"}}

	bot.handleMessage(context.Background(), startCommand(7))

	if len(api.sent) != 1 {
		t.Fatalf("expected exactly 1 reply, got %d", len(api.sent))
	}
	if _, text := sentText(t, api.sent[0]); !strings.Contains(text, "Welcome to PopcornAI") {
		t.Errorf("expected the welcome message, got %q", text)
	}
	if len(bot.histories[7]) != 0 {
		t.Errorf("/start should reset history, got %+v", bot.histories[7])
	}
}

func TestHandleMessage_AgentErrorSendsApology(t *testing.T) {
	bot, api := newTestBot(
		&stubLLM{intentJSON: `{"intent": "general"}`},
		&stubRetriever{err: fmt.Errorf("%w: embeddings down", domain.ErrUpstream)},
	)

	bot.handleMessage(context.Background(), textMessage(9, "tell me about moana 2"))

	if len(api.sent) != 1 {
		t.Fatalf("expected exactly 1 reply, got %d", len(api.sent))
	}
	if _, text := sentText(t, api.sent[0]); text != apologyMessage {
		t.Errorf("expected the apology, got %q", text)
	}
	if len(bot.histories[9]) != 0 {
		t.Errorf("failed turn must not enter history, got %+v", bot.histories[9])
	}
}

func TestHandleMessage_ConsecutiveMessagesKeepContext(t *testing.T) {
	bot, api := newTestBot(
		&stubLLM{intentJSON: `{"intent": "general"}`, answer: "answered"},
		&stubRetriever{},
	)

	bot.handleMessage(context.Background(), textMessage(3, "what is playing tonight"))
	bot.handleMessage(context.Background(), textMessage(3, "and tomorrow evening"))

	if len(api.sent) != 2 {
		t.Fatalf("expected one reply per message, got %d", len(api.sent))
	}
	if len(bot.histories[3]) != 2 {
		t.Errorf("expected 2 turns in history, got %d", len(bot.histories[3]))
	}
}

func TestAppendTurn_CapsHistoryWindow(t *testing.T) {
	var history []agent.Turn
	for i := 0; i < 15; i++ {
		history = appendTurn(history, agent.Turn{User: fmt.Sprintf("q%d", i)}, 10)
	}

	if len(history) != 10 {
		t.Fatalf("history length = %d, want 10", len(history))
	}
	if history[0].User != "q5" {
		t.Errorf("oldest turns should be dropped first, got %q", history[0].User)
	}
	if history[9].User != "q14" {
		t.Errorf("newest turn missing, got %q", history[9].User)
	}
}

func TestAppendTurn_NoCapWhenMaxZero(t *testing.T) {
	var history []agent.Turn
	for i := 0; i < 15; i++ {
		history = appendTurn(history, agent.Turn{User: fmt.Sprintf("q%d", i)}, 0)
	}
	if len(history) != 15 {
		t.Fatalf("history length = %d, want 15", len(history))
	}
}
