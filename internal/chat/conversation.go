package chat

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/calma/internal/log"
	"github.com/verte-zerg/calma/internal/model"
	"github.com/verte-zerg/calma/internal/timer"
)

// DefaultReplyDelay is how long the bot "types" before answering.
const DefaultReplyDelay = 1500 * time.Millisecond

// ErrEmptyMessage rejects blank input.
var ErrEmptyMessage = errors.New("message is empty")

// Sender identifies who wrote a message.
type Sender string

const (
	SenderUser       Sender = "user"
	SenderBot        Sender = "bot"
	SenderSpecialist Sender = "specialist"
)

// Message is one chat entry.
type Message struct {
	ID     string
	Text   string
	Sender Sender
	At     time.Time
	Rule   string
}

// Options tunes a Conversation. Zero values pick defaults.
type Options struct {
	ReplyDelay time.Duration
	Now        func() time.Time
	NewID      func() string
}

// Conversation holds the message history and schedules bot replies.
type Conversation struct {
	sched     timer.Scheduler
	responder *Responder
	script    model.ChatScript
	opts      Options
	messages  []Message
	pending   map[string]func()
	logger    zerolog.Logger

	onMessage func(Message)
}

// NewConversation starts a conversation with the script greeting.
func NewConversation(sched timer.Scheduler, script model.ChatScript, opts Options) *Conversation {
	if opts.ReplyDelay <= 0 {
		opts.ReplyDelay = DefaultReplyDelay
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = func() string { return uuid.NewString() }
	}
	c := &Conversation{
		sched:     sched,
		responder: FromScript(script),
		script:    script,
		opts:      opts,
		pending:   map[string]func(){},
		logger:    log.WithComponent("chat"),
	}
	if script.Greeting != "" {
		c.append(Message{Text: script.Greeting, Sender: SenderBot})
	}
	return c
}

// OnMessage registers a callback for every appended message.
func (c *Conversation) OnMessage(fn func(Message)) { c.onMessage = fn }

// Messages returns the history, oldest first.
func (c *Conversation) Messages() []Message {
	return append([]Message(nil), c.messages...)
}

// Typing reports whether a bot reply is still pending.
func (c *Conversation) Typing() bool { return len(c.pending) > 0 }

// Send appends the user's message and schedules the bot reply.
func (c *Conversation) Send(text string) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, ErrEmptyMessage
	}
	msg := c.append(Message{Text: text, Sender: SenderUser})
	reply, rule := c.responder.Respond(text)
	c.pending[msg.ID] = c.sched.After(c.opts.ReplyDelay, func() {
		delete(c.pending, msg.ID)
		c.append(Message{Text: reply, Sender: SenderBot, Rule: rule})
	})
	c.logger.Debug().Str("rule", rule).Msg("reply scheduled")
	return msg, nil
}

// CrisisLine returns the emergency contact notice.
func (c *Conversation) CrisisLine() string { return c.script.CrisisLine }

// RequestAppointment returns the appointment confirmation notice.
func (c *Conversation) RequestAppointment() string {
	c.logger.Info().Msg("appointment requested")
	return c.script.Appointment
}

// Close cancels replies that have not been delivered.
func (c *Conversation) Close() {
	for id, stop := range c.pending {
		stop()
		delete(c.pending, id)
	}
}

func (c *Conversation) append(msg Message) Message {
	msg.ID = c.opts.NewID()
	msg.At = c.opts.Now()
	c.messages = append(c.messages, msg)
	if c.onMessage != nil {
		c.onMessage(msg)
	}
	return msg
}
