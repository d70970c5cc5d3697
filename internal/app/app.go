package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/v01cee/convert-yandex-bot/internal/config"
	"github.com/v01cee/convert-yandex-bot/internal/infrastructure/disk"
	"github.com/v01cee/convert-yandex-bot/internal/infrastructure/ffmpeg"
	"github.com/v01cee/convert-yandex-bot/internal/infrastructure/oauth"
	"github.com/v01cee/convert-yandex-bot/internal/infrastructure/storage"
	"github.com/v01cee/convert-yandex-bot/internal/infrastructure/telegram"
	"github.com/v01cee/convert-yandex-bot/internal/infrastructure/whisper"
	"github.com/v01cee/convert-yandex-bot/internal/logging"
	"github.com/v01cee/convert-yandex-bot/internal/ports"
	"github.com/v01cee/convert-yandex-bot/internal/usecase"
)

// Application wires configuration to adapters and runs the bot loop.
type Application struct {
	cfg config.Config
	log *slog.Logger

	bot         *telegram.Client
	messenger   ports.Messenger
	diskClient  ports.DiskClient
	extractor   ports.AudioExtractor
	transcriber ports.Transcriber
	resolver    *usecase.Resolver
	tokens      ports.TokenStore
	oauth       *oauth.Client
	sweeper     *usecase.Sweeper

	admins map[int64]struct{}
}

// New builds a runnable application instance from configuration.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	bot := telegram.NewClient(cfg.Telegram.BotToken)
	diskClient := disk.NewClient(cfg.Yandex.DiskToken, baseLogger.With("component", "disk"))
	extractor := ffmpeg.NewExtractor(cfg.Pipeline.TempDir, baseLogger.With("component", "extractor"))
	engine := whisper.NewEngine(cfg.Pipeline.WhisperModel, cfg.Pipeline.TempDir, baseLogger.With("component", "whisper"))

	var tokens ports.TokenStore = storage.NewMemoryTokenStore()
	if cfg.Database.DSN != "" {
		if db, err := storage.Open(cfg.Database.DSN); err != nil {
			baseLogger.Warn("app: postgres unavailable, tokens stay in memory", "error", err)
		} else {
			tokens = storage.NewPostgresTokenStore(db)
		}
	}

	admins := make(map[int64]struct{}, len(cfg.Telegram.AdminIDs))
	for _, id := range cfg.Telegram.AdminIDs {
		admins[id] = struct{}{}
	}

	return &Application{
		cfg:         cfg,
		log:         baseLogger,
		bot:         bot,
		messenger:   bot,
		diskClient:  diskClient,
		extractor:   extractor,
		transcriber: engine,
		resolver:    usecase.NewResolver(diskClient, baseLogger.With("component", "resolver")),
		tokens:      tokens,
		oauth: oauth.NewClient(
			cfg.Yandex.OAuth.ClientID,
			cfg.Yandex.OAuth.ClientSecret,
			cfg.Yandex.OAuth.RedirectURI,
		),
		sweeper: usecase.NewSweeper(cfg.Pipeline.TempDir, cfg.Sweeper.MaxAge, baseLogger.With("component", "sweeper")),
		admins:  admins,
	}
}

// Run polls for updates until the context is cancelled.
func (a *Application) Run(ctx context.Context) error {
	if err := os.MkdirAll(a.cfg.Pipeline.TempDir, 0o755); err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}

	if err := a.sweeper.Start(a.cfg.Sweeper.CronExpression); err != nil {
		return fmt.Errorf("start sweeper: %w", err)
	}
	defer a.sweeper.Stop()

	a.log.Info("bot started", "admins", len(a.admins))

	var offset int64
	for {
		if ctx.Err() != nil {
			return nil
		}

		updates, err := a.bot.GetUpdates(ctx, offset, a.cfg.Telegram.PollTimeoutSecs)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			a.log.Error("poll updates", "error", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(3 * time.Second):
			}
			continue
		}

		for _, update := range updates {
			offset = update.UpdateID + 1
			if update.Message != nil {
				a.handleMessage(ctx, *update.Message)
			}
		}
	}
}

func (a *Application) handleMessage(ctx context.Context, msg telegram.Message) {
	text := strings.TrimSpace(msg.Text)
	switch {
	case strings.HasPrefix(text, "/start"):
		a.reply(ctx, msg.Chat.ID, greetingText(msg.From))
	case strings.HasPrefix(text, "/help"):
		a.reply(ctx, msg.Chat.ID, helpText)
	case strings.HasPrefix(text, "/yandex_auth"):
		a.handleAuth(ctx, msg)
	case strings.HasPrefix(text, "/code"):
		a.handleCode(ctx, msg)
	case strings.HasPrefix(text, "/"):
		// Unknown commands are somebody else's problem.
	default:
		a.handleDiskLink(ctx, msg)
	}
}

// handleDiskLink silently ignores anything that is not a disk link from an
// admin; link jobs run in their own goroutine so polling keeps going.
func (a *Application) handleDiskLink(ctx context.Context, msg telegram.Message) {
	link, found := usecase.ExtractLink(msg.Text)
	if !found {
		return
	}
	if !usecase.IsDiskLink(link) {
		a.log.Debug("ignoring non-disk link", "link", link)
		return
	}
	if !a.isAdmin(msg.From) {
		a.log.Info("ignoring link from non-admin", "user", senderID(msg.From))
		return
	}

	a.log.Info("processing link", "link", link, "chat", msg.Chat.ID)
	go a.runJob(ctx, msg.Chat.ID, link)
}

func (a *Application) runJob(ctx context.Context, chatID int64, link string) {
	statusID, err := a.messenger.SendMessage(ctx, chatID, "🔍 Processing the link...")
	if err != nil {
		a.log.Error("send status message", "error", err)
		return
	}
	edit := func(text string) {
		if err := a.messenger.EditMessage(ctx, chatID, statusID, text); err != nil {
			a.log.Warn("edit status message", "error", err)
		}
	}

	edit("🔍 Looking for video files...")
	videos, err := a.resolver.Resolve(ctx, link)
	if err != nil {
		edit(resolutionErrorText(err))
		return
	}
	if len(videos) == 0 {
		edit("❌ No video files found.\n\nCheck that the link points at a video file or a folder with videos.")
		return
	}

	header := foundVideosText(videos, a.cfg.Pipeline.MaxListed)
	edit(header + "\n\n🔄 Starting to process the videos...")

	presenter := newStatusPresenter(ctx, a.messenger, a.log, chatID, statusID, header, videos)
	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Disk:        a.diskClient,
		Extractor:   a.extractor,
		Transcriber: a.transcriber,
		Deliverer:   presenter,
		Reporter:    presenter,
		TempDir:     a.cfg.Pipeline.TempDir,
		Language:    a.cfg.Pipeline.Language,
		Logger:      a.log.With("component", "pipeline"),
	})
	summary := pipeline.Run(ctx, videos)
	a.log.Info("job finished", "processed", summary.Processed, "failed", summary.Failed, "total", summary.Total)
}

func (a *Application) handleAuth(ctx context.Context, msg telegram.Message) {
	state := strconv.FormatInt(senderID(msg.From), 10)
	a.reply(ctx, msg.Chat.ID,
		"To authorize with Yandex, open this link:\n\n"+
			a.oauth.AuthorizationURL(state)+
			"\n\nAfter authorizing you will receive a code. Send it back with /code <your_code>")
}

func (a *Application) handleCode(ctx context.Context, msg telegram.Message) {
	parts := strings.Fields(msg.Text)
	if len(parts) < 2 {
		a.reply(ctx, msg.Chat.ID, "Usage: /code <your_authorization_code>")
		return
	}

	a.reply(ctx, msg.Chat.ID, "Exchanging the code for a token...")

	token, err := a.oauth.ExchangeCode(ctx, parts[1])
	if err != nil {
		a.log.Error("exchange code", "error", err)
		a.reply(ctx, msg.Chat.ID, "❌ Could not obtain a token. Check the code and try again.")
		return
	}

	if err := a.tokens.Save(ctx, senderID(msg.From), token.AccessToken); err != nil {
		a.log.Error("save token", "error", err)
	}

	reply := "✅ Authorization successful!"
	if info, err := a.oauth.FetchUserInfo(ctx, token.AccessToken); err == nil {
		reply += fmt.Sprintf("\n\nName: %s %s\nLogin: %s\nEmail: %s",
			info.FirstName, info.LastName, info.Login, info.DefaultEmail)
	}
	reply += "\n\nAccess token: " + maskToken(token.AccessToken)
	a.reply(ctx, msg.Chat.ID, reply)
}

func (a *Application) reply(ctx context.Context, chatID int64, text string) {
	if _, err := a.messenger.SendMessage(ctx, chatID, text); err != nil {
		a.log.Error("send message", "error", err)
	}
}

func (a *Application) isAdmin(user *telegram.User) bool {
	if user == nil {
		return false
	}
	_, ok := a.admins[user.ID]
	return ok
}

func senderID(user *telegram.User) int64 {
	if user == nil {
		return 0
	}
	return user.ID
}

func maskToken(token string) string {
	const visible = 20
	if len(token) <= visible {
		return token
	}
	return token[:visible] + "..."
}
