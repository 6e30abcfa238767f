package app

import (
	"context"

	"github.com/carousell/ct-go/pkg/logger"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/go-resty/resty/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap/zapcore"

	"github.com/edaxe/furniture-app/internal/config"
	"github.com/edaxe/furniture-app/internal/events"
	"github.com/edaxe/furniture-app/internal/imagecache"
	"github.com/edaxe/furniture-app/internal/repo/cloudvision"
	"github.com/edaxe/furniture-app/internal/repo/gemini"
	"github.com/edaxe/furniture-app/internal/repo/imagefetch"
	"github.com/edaxe/furniture-app/internal/repo/retailers"
	"github.com/edaxe/furniture-app/internal/server"
	"github.com/edaxe/furniture-app/internal/usecase"
	"github.com/edaxe/furniture-app/pkg/util"
)

func Invoke(funcs ...any) *fx.App {
	log := logger.MustNamed("app")
	conf := config.MustLoad()
	log.Debugw("config loaded", log.Reflect("config", conf))
	return fx.New(
		fx.WithLogger(func() fxevent.Logger {
			l := &fxevent.ZapLogger{
				Logger: log.Unwrap().Desugar(),
			}
			l.UseLogLevel(zapcore.DebugLevel)
			return l
		}),
		fx.Provide(
			newGenkitClient,
			newRestyClient,
			newImageCache,

			server.NewHandler,

			usecase.NewDetectionUsecase,
			usecase.NewProductUsecase,

			gemini.NewDetector,
			gemini.NewVisualScorer,
			cloudvision.NewDetector,

			retailers.NewWayfair,
			retailers.NewGoogleShopping,
			newRetailerList,

			imagefetch.NewFetcher,
			events.NewPublisher,

			asImageGetter,
			asImageFetcher,
			asVisualScorer,
		),
		fx.Supply(conf),
		fx.Invoke(funcs...),
	)
}

func newGenkitClient(cfg *config.Config) (*genkit.Genkit, error) {
	ctx := context.Background()
	googleAI := &googlegenai.GoogleAI{
		APIKey: cfg.Detection.GeminiAPIKey,
	}
	return genkit.Init(ctx, genkit.WithPlugins(googleAI)), nil
}

func newRestyClient() *resty.Client {
	return util.NewRestyClient()
}

func newImageCache(lc fx.Lifecycle, cfg *config.Config) *imagecache.Cache {
	cache := imagecache.New(
		imagecache.WithTTL(cfg.Cache.TTL),
		imagecache.WithMaxEntries(cfg.Cache.MaxEntries),
		imagecache.WithSweepInterval(cfg.Cache.SweepInterval),
	)
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go cache.Run(context.Background())
			return nil
		},
		OnStop: func(context.Context) error {
			cache.Close()
			return nil
		},
	})
	return cache
}

// newRetailerList fixes the provider order: partners first, then the
// fallback source.
func newRetailerList(wayfair *retailers.Wayfair, serper *retailers.GoogleShopping) []retailers.Retailer {
	return []retailers.Retailer{wayfair, serper}
}

func asImageGetter(cache *imagecache.Cache) usecase.ImageGetter { return cache }

func asImageFetcher(fetcher *imagefetch.Fetcher) usecase.ImageFetcher { return fetcher }

func asVisualScorer(scorer *gemini.VisualScorer) usecase.VisualScorer { return scorer }
