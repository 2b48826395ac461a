package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/colorboard/apiserver/types"
	"go.uber.org/zap"
)

const publishTimeout = 5 * time.Second

// ColorRepository defines persistence operations for color records.
type ColorRepository interface {
	Create(ctx context.Context, author string, input types.ColorInput) (types.ColorRecord, error)
	Get(ctx context.Context, id int64) (types.ColorRecord, error)
	Exists(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context) ([]types.ColorRecord, error)
}

// FavoriteRepository defines persistence operations for favorite sets.
type FavoriteRepository interface {
	Toggle(ctx context.Context, username string, id int64) (bool, error)
	IsFavorite(ctx context.Context, username string, id int64) (bool, error)
	IDs(ctx context.Context, username string) (map[int64]struct{}, error)
}

// EventPublisher is satisfied by *mq.MQ.
type EventPublisher interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
}

// ColorOption configures a ColorService.
type ColorOption func(*ColorService)

// WithEventPublisher publishes a color.created event on channel after each post.
func WithEventPublisher(publisher EventPublisher, channel string) ColorOption {
	return func(s *ColorService) {
		s.events = publisher
		s.channel = channel
	}
}

// ColorService posts records and answers the aggregated list queries.
type ColorService struct {
	colors    ColorRepository
	favorites FavoriteRepository
	events    EventPublisher
	channel   string
	logger    *zap.Logger
}

func NewColorService(colors ColorRepository, favorites FavoriteRepository, logger *zap.Logger, opts ...ColorOption) *ColorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ColorService{
		colors:    colors,
		favorites: favorites,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores a record authored by the verified session subject.
func (s *ColorService) Create(ctx context.Context, author string, input types.ColorInput) (types.ColorRecord, error) {
	input.Color = strings.TrimSpace(input.Color)
	if strings.TrimSpace(author) == "" {
		return types.ColorRecord{}, fmt.Errorf("%w: author is required", ErrInvalidInput)
	}
	if input.Color == "" {
		return types.ColorRecord{}, fmt.Errorf("%w: color is required", ErrInvalidInput)
	}

	record, err := s.colors.Create(ctx, author, input)
	if err != nil {
		return types.ColorRecord{}, err
	}

	s.publishCreated(ctx, record)
	return record, nil
}

// List returns all records newest first.
func (s *ColorService) List(ctx context.Context) ([]types.ColorRecord, error) {
	return s.colors.List(ctx)
}

// ListWithFavorites decorates every record with whether username favorited it.
func (s *ColorService) ListWithFavorites(ctx context.Context, username string) ([]types.ColorView, error) {
	records, err := s.colors.List(ctx)
	if err != nil {
		return nil, err
	}
	favorites, err := s.favorites.IDs(ctx, username)
	if err != nil {
		return nil, err
	}

	views := make([]types.ColorView, 0, len(records))
	for _, record := range records {
		_, favorite := favorites[record.ID]
		views = append(views, types.ColorView{ColorRecord: record, IsFavorite: favorite})
	}
	return views, nil
}

// MyPage returns the records username posted and the records they favorited.
func (s *ColorService) MyPage(ctx context.Context, username string) (types.MyPage, error) {
	records, err := s.colors.List(ctx)
	if err != nil {
		return types.MyPage{}, err
	}
	favorites, err := s.favorites.IDs(ctx, username)
	if err != nil {
		return types.MyPage{}, err
	}

	page := types.MyPage{
		MyPosts:     make([]types.ColorRecord, 0),
		MyFavorites: make([]types.ColorRecord, 0),
	}
	for _, record := range records {
		if record.Author == username {
			page.MyPosts = append(page.MyPosts, record)
		}
		if _, ok := favorites[record.ID]; ok {
			page.MyFavorites = append(page.MyFavorites, record)
		}
	}
	return page, nil
}

func (s *ColorService) publishCreated(ctx context.Context, record types.ColorRecord) {
	if s.events == nil || s.channel == "" {
		return
	}

	data, err := json.Marshal(types.ColorCreatedEvent{
		Type:   types.EventColorCreated,
		Record: record,
	})
	if err != nil {
		s.logger.Error("encode color event", zap.Int64("color_id", record.ID), zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	attrs := map[string]string{
		"type":     types.EventColorCreated,
		"color_id": strconv.FormatInt(record.ID, 10),
	}
	if _, err := s.events.Publish(ctx, s.channel, data, attrs); err != nil {
		s.logger.Warn("publish color event failed",
			zap.String("channel", s.channel),
			zap.Int64("color_id", record.ID),
			zap.Error(err),
		)
	}
}
