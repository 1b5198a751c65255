package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"path/filepath"

	"libraryhub/config"
	"libraryhub/infras/otel"
	"libraryhub/infras/s3"
	"libraryhub/internal/domains/room/model"
	"libraryhub/internal/domains/room/model/dto"
	"libraryhub/internal/domains/room/repository"
	"libraryhub/shared"
	"libraryhub/shared/cache"
	"libraryhub/shared/constant"
	gDto "libraryhub/shared/dto"
	"libraryhub/shared/failure"
	gRepo "libraryhub/shared/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Room interface {
	Create(ctx context.Context, req dto.CreateRoomRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetRoomsResponse, error)
	Get(ctx context.Context, id int64) (dto.RoomResponse, error)
	UpdateCapacity(ctx context.Context, id int64, req dto.UpdateRoomRequest) error
	Delete(ctx context.Context, id int64) error
}

type serviceImpl struct {
	repo  repository.Room
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
	s3    s3.S3
}

func New(repo repository.Room, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, s3 s3.S3) Room {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
		s3:    s3,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateRoomRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserEmail).(string)
	bucketName := s.cfg.External.S3.BucketName

	imageURL := constant.Empty
	uploadedObjectName := constant.Empty

	if req.Image != nil {
		filename := uuid.NewString() + filepath.Ext(req.Image.Filename)

		imageURL, err = s.s3.UploadFile(ctx, bucketName, model.EntityName, req.ImageFile, req.Image, filename)
		if err != nil {
			log.Error().Err(err).Msg("failed to upload image to S3")

			return fmt.Errorf("failed to upload image: %w", err)
		}

		uploadedObjectName = filename
	}

	err = s.repo.Insert(ctx, req.ToModel(user, imageURL))
	if err != nil {
		if uploadedObjectName != constant.Empty {
			if delErr := s.s3.DeleteFile(ctx, bucketName, model.EntityName, uploadedObjectName); delErr != nil {
				log.Warn().Err(delErr).Str("object", uploadedObjectName).Msg("failed to remove orphaned room image")
			}
		}

		if gRepo.IsUniqueViolation(err) {
			return failure.Conflict(fmt.Sprintf("room %d already exists", req.ID)) //nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create room")

		return fmt.Errorf("failed to create room: %w", err)
	}

	s.invalidate(ctx, req.ID)

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetRoomsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	gen, cacheable := s.generation(ctx, model.CacheGenerationRoom)
	cacheKey := shared.BuildCacheKeyWithQuery(shared.BuildCacheKey(model.CacheGetAllRoom, gen), req, filter)

	if cacheable {
		if cacheErr := s.cache.Get(ctx, cacheKey, &res); cacheErr == nil {
			log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for rooms")

			return res, nil
		}
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count rooms")

		return res, fmt.Errorf("failed to count rooms: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get rooms")

		return res, fmt.Errorf("failed to get rooms: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	if cacheable {
		s.save(ctx, cacheKey, res)
	}

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id int64) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	gen, cacheable := s.generation(ctx, model.GenerationKey(id))
	cacheKey := shared.BuildCacheKey(model.CacheGetRoom, id, gen)

	if cacheable {
		if cacheErr := s.cache.Get(ctx, cacheKey, &res); cacheErr == nil {
			log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for room")

			return res, nil
		}
	}

	room, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == 0 {
		return res, failure.NotFound("room not found") //nolint:wrapcheck
	}

	res.FromModel(room)

	if cacheable {
		s.save(ctx, cacheKey, res)
	}

	return res, nil
}

// UpdateCapacity changes only the capacity. Status is owned by reservation writes.
func (s *serviceImpl) UpdateCapacity(ctx context.Context, id int64, req dto.UpdateRoomRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateCapacity")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserEmail).(string)

	affected, err := s.repo.Update(ctx, shared.TransformFields(req, user), shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to update room")

		return fmt.Errorf("failed to update room: %w", err)
	}

	if affected == 0 {
		return failure.NotFound("room not found") //nolint:wrapcheck
	}

	s.invalidate(ctx, id)

	return nil
}

// Delete removes a room that no reservation references, then its stored image.
func (s *serviceImpl) Delete(ctx context.Context, id int64) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	room, err := s.repo.Get(ctx, filter, model.FieldID, model.FieldImage)
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == 0 {
		return failure.NotFound("room not found") //nolint:wrapcheck
	}

	hasReservations, err := s.repo.HasReservations(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to check room reservations")

		return fmt.Errorf("failed to check room reservations: %w", err)
	}

	if hasReservations {
		return failure.BadRequestFromString("cannot delete room with existing reservations") //nolint:wrapcheck
	}

	affected, err := s.repo.Delete(ctx, filter)
	if gRepo.IsForeignKeyViolation(err) {
		return failure.BadRequestFromString("cannot delete room with existing reservations") //nolint:wrapcheck
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to delete room")

		return fmt.Errorf("failed to delete room: %w", err)
	}

	if affected == 0 {
		return failure.NotFound("room not found") //nolint:wrapcheck
	}

	if room.Image != constant.Empty {
		bucketName := s.cfg.External.S3.BucketName

		if objectName := s.s3.GetObjectNameFromURL(bucketName, room.Image); objectName != constant.Empty {
			if err := s.s3.DeleteFile(ctx, bucketName, model.EntityName, objectName); err != nil {
				log.Warn().Err(err).Int64("room_id", id).Msg("failed to delete room image")
			}
		}
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id int64) {
	shared.BumpGenerations(ctx, s.cache, model.GenerationKeys(id)...)
}

// generation must be read before the store. A read racing a write then saves under
// the generation the write has already retired.
func (s *serviceImpl) generation(ctx context.Context, key string) (int64, bool) {
	gen, err := s.cache.Generation(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache generation unavailable, reading store")

		return 0, false
	}

	return gen, true
}

func (s *serviceImpl) save(ctx context.Context, key string, value any) {
	if err := s.cache.Save(ctx, key, value, s.cfg.Cache.TTL); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to save room cache")
	}
}
