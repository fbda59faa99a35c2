package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bradykim7/recipebot/internal/bot/commands"
	"github.com/bradykim7/recipebot/internal/scraper"
	"github.com/bradykim7/recipebot/internal/session"
	"github.com/bradykim7/recipebot/internal/storage"
	"github.com/bradykim7/recipebot/pkg/config"
	"github.com/bradykim7/recipebot/pkg/logger"
	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Bot은 Discord 봇을 나타냅니다
type Bot struct {
	ctx      context.Context
	session  *discordgo.Session
	config   *config.Config
	log      *zap.Logger
	commands *commands.Registry
	sessions *session.Manager
	db       *storage.MongoDB
}

// New는 새로운 Bot 인스턴스를 생성합니다.
// ctx is handed to every command and cancels in-flight generations on shutdown.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Bot, error) {
	// Discord 세션 생성
	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("Discord 세션 생성 오류: %w", err)
	}

	zl := log.Zap()
	bot := &Bot{
		ctx:      ctx,
		session:  dg,
		config:   cfg,
		log:      zl.Named("bot"),
		commands: commands.NewRegistry(cfg.CommandPrefix, log),
		sessions: session.NewManager(session.Options{
			Delay:       cfg.GenerationDelay,
			IdleTimeout: cfg.SessionIdleTimeout,
			Logger:      zl,
		}),
	}

	// MongoDB 연결 (요리책은 선택 사항)
	var cookbook commands.Cookbook
	if cfg.CookbookEnabled() {
		db, err := storage.NewMongoDB(ctx, cfg, zl)
		if err != nil {
			return nil, fmt.Errorf("MongoDB 연결 오류: %w", err)
		}
		bot.db = db

		repo := storage.NewCookbookRepository(db, zl)
		indexCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		if err := repo.EnsureIndexes(indexCtx); err != nil {
			bot.log.Warn("인덱스 생성 실패", zap.Error(err))
		}
		cancel()
		cookbook = repo
	} else {
		bot.log.Info("MONGODB_URI not set, cookbook disabled")
	}

	importer := scraper.NewImporter(scraper.NewFetcher(zl), zl)

	// 명령어 등록
	bot.commands.Register("ping", commands.NewPingCommand())
	bot.commands.Register("recipe", commands.NewRecipeCommand(zl, cfg.CommandPrefix, bot.sessions, importer, cookbook).
		WithImportTimeout(cfg.ImportTimeout))

	// 이벤트 핸들러 설정
	dg.AddHandler(bot.onReady)
	dg.AddHandler(bot.onMessageCreate)

	// Intents 설정
	dg.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	return bot, nil
}

// Start는 봇을 시작하고 ctx가 취소될 때까지 실행합니다
func (b *Bot) Start(ctx context.Context) error {
	// Discord에 연결
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("Discord 세션 열기 오류: %w", err)
	}

	b.log.Info("봇이 실행 중입니다. 종료하려면 CTRL-C를 누르세요.")

	// 세션 정리 작업은 ctx가 취소될 때까지 실행됩니다
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b.sessions.Run(gctx, b.config.SessionSweepEvery)
		return nil
	})
	runErr := g.Wait()

	// 리소스 정리
	return errors.Join(runErr, b.Close())
}

// Close는 리소스를 정리합니다
func (b *Bot) Close() error {
	var errs []error

	if err := b.session.Close(); err != nil {
		errs = append(errs, fmt.Errorf("Discord 세션 닫기 오류: %w", err))
	}

	b.sessions.Close()

	if b.db != nil {
		if err := b.db.Disconnect(); err != nil {
			errs = append(errs, fmt.Errorf("MongoDB 연결 해제 오류: %w", err))
		}
	}

	return errors.Join(errs...)
}

// onReady는 봇이 준비되었을 때의 이벤트 핸들러입니다
func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.log.Info("봇 로그인 완료",
		zap.String("username", r.User.Username),
		zap.String("discriminator", r.User.Discriminator))

	// 상태 설정
	err := s.UpdateGameStatus(0, b.config.CommandPrefix+"recipe help")
	if err != nil {
		b.log.Error("상태 설정 오류", zap.Error(err))
	}
}

// onMessageCreate는 메시지가 생성되었을 때의 이벤트 핸들러입니다
func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	selfID := ""
	if s.State != nil && s.State.User != nil {
		selfID = s.State.User.ID
	}
	if !shouldHandle(m, selfID, b.config.DiscordGuild) {
		return
	}

	// 메시지 로깅
	b.log.Debug("메시지 수신됨",
		zap.String("guild_id", m.GuildID),
		zap.String("channel_id", m.ChannelID),
		zap.String("user_id", m.Author.ID),
		zap.String("username", m.Author.Username),
		zap.String("content", m.Content))

	// 명령어 처리
	b.commands.Handle(b.ctx, commands.SessionMessenger{Session: s}, m)
}

// shouldHandle filters out bot authors (the bot itself included) and, when a
// guild is configured, messages from other guilds. Direct messages always pass.
func shouldHandle(m *discordgo.MessageCreate, selfID, guildID string) bool {
	if m == nil || m.Message == nil || m.Author == nil {
		return false
	}
	if m.Author.Bot || m.Author.ID == selfID {
		return false
	}
	if guildID != "" && m.GuildID != "" && m.GuildID != guildID {
		return false
	}
	return true
}
