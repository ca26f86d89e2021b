package app

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"go.uber.org/fx"

	"github.com/njprem/Travel_planner_APP_BackEnd/internal/config"
	"github.com/njprem/Travel_planner_APP_BackEnd/internal/domain"
	"github.com/njprem/Travel_planner_APP_BackEnd/internal/logging"
	"github.com/njprem/Travel_planner_APP_BackEnd/internal/media"
	"github.com/njprem/Travel_planner_APP_BackEnd/internal/repository/minio"
	"github.com/njprem/Travel_planner_APP_BackEnd/internal/repository/ports"
	"github.com/njprem/Travel_planner_APP_BackEnd/internal/repository/postgres"
	"github.com/njprem/Travel_planner_APP_BackEnd/internal/service"
	"github.com/njprem/Travel_planner_APP_BackEnd/internal/transport/countries"
	"github.com/njprem/Travel_planner_APP_BackEnd/internal/util"
)

var InfraModule = fx.Module("infra",
	fx.Provide(
		config.Load,
		provideLogger,
		provideDB,
		postgres.NewStore,
		provideTxRunner,
		provideObjectStorage,
		provideProcessor,
	),
)

var RepositoryModule = fx.Module("repositories",
	fx.Provide(
		fx.Annotate(postgres.NewUserRepo, fx.As(new(ports.UserRepository))),
		fx.Annotate(postgres.NewRoleRepo, fx.As(new(ports.RoleRepository))),
		fx.Annotate(postgres.NewSessionRepo, fx.As(new(ports.SessionRepository))),
		fx.Annotate(postgres.NewDestinationRepo, fx.As(new(ports.DestinationRepository))),
		fx.Annotate(postgres.NewPhotoRepo, fx.As(new(ports.PhotoRepository))),
		fx.Annotate(postgres.NewDestinationPhotoRepo, fx.As(new(ports.DestinationPhotoRepository))),
		fx.Annotate(postgres.NewProposalRepo, fx.As(new(ports.ProposalRepository))),
		fx.Annotate(postgres.NewTripRepo, fx.As(new(ports.TripRepository))),
		fx.Annotate(postgres.NewTreasureHuntRepo, fx.As(new(ports.TreasureHuntRepository))),
		fx.Annotate(postgres.NewReferenceRepo, fx.As(new(ports.ReferenceRepository))),
	),
)

var ServiceModule = fx.Module("services",
	fx.Provide(
		provideJWT,
		provideLifecycle,
		provideAuthService,
		provideDestinationService,
		providePhotoService,
		provideProposalService,
		service.NewTripService,
		service.NewTreasureHuntService,
		provideCountrySource,
		service.NewReferenceService,
	),
)

func provideLogger(lc fx.Lifecycle, cfg config.Config) (*logging.Logger, logrus.FieldLogger, error) {
	logger, err := logging.New(logging.Config{
		Level:        cfg.LogLevel,
		Format:       cfg.LogFormat,
		File:         cfg.LogFile,
		LogstashAddr: cfg.LogstashTCPAddr,
	})
	if err != nil {
		return nil, nil, err
	}
	lc.Append(fx.StopHook(logger.Close))
	return logger, logger, nil
}

func provideDB(lc fx.Lifecycle, cfg config.Config, log logrus.FieldLogger) (*sqlx.DB, error) {
	db, err := postgres.New(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if cfg.RunMigrations {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := postgres.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Info("database schema applied")
	}
	lc.Append(fx.StopHook(db.Close))
	return db, nil
}

func provideTxRunner(store *postgres.Store) ports.TxRunner {
	return store
}

func provideObjectStorage(lc fx.Lifecycle, cfg config.Config) (ports.ObjectStorage, error) {
	client, err := minio.NewClient(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOUseSSL)
	if err != nil {
		return nil, err
	}
	store := minio.NewPhotoStore(client, cfg.MinIOBucket, cfg.MinIOPublicURL)
	lc.Append(fx.StartHook(store.EnsureBucket))
	return store, nil
}

func provideProcessor(cfg config.Config) media.Processor {
	return media.NewFFMPEGProcessor(cfg.FFMPEGPath, media.Options{
		MaxDimension:       cfg.PhotoMaxDim,
		ThumbnailDimension: cfg.ThumbnailDim,
	})
}

func provideJWT(cfg config.Config) *util.JWTManager {
	return util.NewJWTManager(cfg.JWTSecret, cfg.SessionTTL)
}

// provideLifecycle registers every soft-deletable kind. Links are swept
// before the photos and destinations they point at.
func provideLifecycle(
	cfg config.Config,
	log logrus.FieldLogger,
	storage ports.ObjectStorage,
	destinations ports.DestinationRepository,
	photos ports.PhotoRepository,
	links ports.DestinationPhotoRepository,
	proposals ports.ProposalRepository,
) *service.LifecycleManager {
	return service.NewLifecycleManager(
		service.LifecycleConfig{TTL: cfg.SoftDeleteTTL, Storage: storage, Logger: log},
		service.KindStore{Kind: domain.EntityDestinationPhoto, Store: links},
		service.KindStore{Kind: domain.EntityProposal, Store: proposals},
		service.KindStore{Kind: domain.EntityPhoto, Store: photos},
		service.KindStore{Kind: domain.EntityDestination, Store: destinations},
	)
}

func provideAuthService(
	cfg config.Config,
	log logrus.FieldLogger,
	users ports.UserRepository,
	roles ports.RoleRepository,
	sessions ports.SessionRepository,
	jwt *util.JWTManager,
) *service.AuthService {
	return service.NewAuthService(users, roles, sessions, jwt, service.AuthServiceConfig{
		GoogleAudience: cfg.GoogleAudience,
		AdminEmails:    cfg.AdminEmails,
		Logger:         log,
	})
}

func provideDestinationService(
	log logrus.FieldLogger,
	destinations ports.DestinationRepository,
	links ports.DestinationPhotoRepository,
	reference ports.ReferenceRepository,
	users ports.UserRepository,
	tx ports.TxRunner,
	lifecycle *service.LifecycleManager,
) *service.DestinationService {
	return service.NewDestinationService(destinations, links, reference, users, tx, lifecycle, service.DestinationServiceConfig{Logger: log})
}

func providePhotoService(
	cfg config.Config,
	log logrus.FieldLogger,
	photos ports.PhotoRepository,
	links ports.DestinationPhotoRepository,
	destinations ports.DestinationRepository,
	storage ports.ObjectStorage,
	tx ports.TxRunner,
	lifecycle *service.LifecycleManager,
	processor media.Processor,
) *service.PhotoService {
	return service.NewPhotoService(photos, links, destinations, storage, tx, lifecycle, service.PhotoServiceConfig{
		MaxBytes:           cfg.PhotoMaxBytes,
		MaxDimension:       cfg.PhotoMaxDim,
		ThumbnailDimension: cfg.ThumbnailDim,
		Processor:          processor,
		Logger:             log,
	})
}

func provideProposalService(
	log logrus.FieldLogger,
	proposals ports.ProposalRepository,
	destinations ports.DestinationRepository,
	reference ports.ReferenceRepository,
	users ports.UserRepository,
	tx ports.TxRunner,
	lifecycle *service.LifecycleManager,
) *service.ProposalService {
	return service.NewProposalService(proposals, destinations, reference, users, tx, lifecycle, service.ProposalServiceConfig{Logger: log})
}

func provideCountrySource(cfg config.Config) service.CountrySource {
	return countries.NewClient(cfg.CountrySyncURL, nil)
}
