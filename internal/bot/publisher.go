package bot

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/EgorLis/bbstatusbot/internal/bbapi"
	"github.com/EgorLis/bbstatusbot/internal/render"
)

// NotFoundActivity — статус, когда сервер не найден или список не получен.
const NotFoundActivity = "¯\\_(ツ)_/¯ server not found"

var ErrPublish = errors.New("bot: publish failed")

// Presence — то, что нужно от сессии чат-платформы.
type Presence interface {
	SetActivity(text string) error
	EditProfile(ctx context.Context, avatar, banner []byte) error
}

type Publisher struct {
	session Presence
	log     zerolog.Logger
}

func NewPublisher(session Presence, log zerolog.Logger) *Publisher {
	return &Publisher{
		session: session,
		log:     log.With().Str("component", "publisher").Logger(),
	}
}

// ActivityText — "<игроки>/<максимум> - <карта>".
func ActivityText(s bbapi.Server) string {
	return fmt.Sprintf("%d/%d - %s", s.Players, s.MaxPlayers, bbapi.MapID(s.Map))
}

// Publish выставляет статус по серверу. s == nil — заглушка "not found",
// профиль не трогаем. Ошибки смены аватара/баннера только логируются.
func (p *Publisher) Publish(ctx context.Context, s *bbapi.Server, res *render.Result, banner bool) error {
	log := p.logger(ctx)

	if s == nil {
		if err := p.session.SetActivity(NotFoundActivity); err != nil {
			return fmt.Errorf("%w: set activity: %v", ErrPublish, err)
		}
		return nil
	}

	text := ActivityText(*s)
	if err := p.session.SetActivity(text); err != nil {
		return fmt.Errorf("%w: set activity: %v", ErrPublish, err)
	}
	log.Info().Str("activity", text).Msg("activity updated")

	if res == nil {
		return nil
	}

	avatar, err := os.ReadFile(res.CompositePath)
	if err != nil {
		log.Warn().Err(err).Msg("failed to read avatar image")
		return nil
	}

	var bannerImg []byte
	if banner {
		bannerImg, err = os.ReadFile(res.BasePath)
		if err != nil {
			log.Warn().Err(err).Msg("failed to read banner image")
			return nil
		}
	}

	if err := p.session.EditProfile(ctx, avatar, bannerImg); err != nil {
		log.Warn().Err(err).Msg("profile edit failed")
	}
	return nil
}

// логгер тика из контекста, если он там есть
func (p *Publisher) logger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &p.log
}
