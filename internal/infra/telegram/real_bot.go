package telegram

import (
	"context"
	"errors"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"telegram-notify-relay/internal/config"
	"telegram-notify-relay/internal/domain/ports/adapter"
	"telegram-notify-relay/internal/usecase"
)

// Compile-time check
var _ adapter.BotGateway = (*RealBotGateway)(nil)

// RealBotGateway implements adapter.BotGateway with tgbotapi and runs the
// long-polling loop that feeds inbound chat messages to the registration
// flow.
type RealBotGateway struct {
	bot        *tgbotapi.BotAPI
	cfg        *config.BotConfig
	registerUC usecase.RegisterUseCase
	log        *zerolog.Logger

	// updateWorkers is how many goroutines will concurrently process updates.
	updateWorkers int
	// cancelPolling cancels polling when called
	cancelPolling context.CancelFunc
}

func NewRealBotGateway(cfg *config.BotConfig, registerUC usecase.RegisterUseCase, logger *zerolog.Logger) (*RealBotGateway, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	if registerUC == nil {
		return nil, errors.New("register use case is nil")
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 5
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}

	return &RealBotGateway{
		bot:           bot,
		cfg:           cfg,
		registerUC:    registerUC,
		log:           logger,
		updateWorkers: workers,
	}, nil
}

// Send dispatches text to a chat with Markdown rendering, matching how
// webhook payloads are composed (bold titles, fenced code blocks).
func (r *RealBotGateway) Send(ctx context.Context, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	_, err := r.bot.Send(msg)
	return err
}

// StartPolling begins polling Telegram for updates concurrently.
// It runs until ctx is canceled.
func (r *RealBotGateway) StartPolling(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := r.bot.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	r.cancelPolling = cancel

	var wg sync.WaitGroup
	updateChan := make(chan tgbotapi.Update, 100)

	// Worker goroutines process updates concurrently.
	for i := 0; i < r.updateWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for {
				select {
				case update, ok := <-updateChan:
					if !ok {
						return
					}
					if err := r.handleUpdate(ctx, update); err != nil {
						r.log.Error().Err(err).Int("worker", workerID).Msg("error handling update")
					}
				case <-ctx.Done():
					return
				}
			}
		}(i + 1)
	}

	// Dispatcher goroutine: feed updates into updateChan
	go func() {
		defer close(updateChan)
		for {
			select {
			case update := <-updates:
				select {
				case updateChan <- update:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	<-ctx.Done()
	r.bot.StopReceivingUpdates()
	wg.Wait()
	return nil
}

// StopPolling stops the polling loop gracefully.
func (r *RealBotGateway) StopPolling() {
	if r.cancelPolling != nil {
		r.cancelPolling()
	}
}

// handleUpdate routes any inbound message to the registration flow and
// replies with the recipient's access token.
func (r *RealBotGateway) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	if update.Message == nil || update.Message.Chat == nil {
		return nil
	}
	chat := update.Message.Chat
	if chat.UserName == "" {
		return r.Send(ctx, chat.ID, "Please set a Telegram username before registering.")
	}

	token, existing, err := r.registerUC.Register(ctx, chat.ID, chat.UserName)
	if err != nil {
		r.log.Error().Err(err).Str("username", chat.UserName).Msg("registration failed")
		return r.Send(ctx, chat.ID, "Registration failed. Please try again later.")
	}

	if existing {
		return r.Send(ctx, chat.ID, "Welcome back! Your access token is \n"+token)
	}
	return r.Send(ctx, chat.ID, "Congrats! You are now added to the bot. Use the token \n"+token+"\n to authenticate.")
}
