package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/investperdiem/perdiem/cmd/perdiemd/handlers"
	"github.com/investperdiem/perdiem/cmd/perdiemd/warmer"
	"github.com/investperdiem/perdiem/pkg/cache"
	"github.com/investperdiem/perdiem/pkg/cache/memory"
	"github.com/investperdiem/perdiem/pkg/cache/redis"
	"github.com/investperdiem/perdiem/pkg/configs"
	"github.com/investperdiem/perdiem/pkg/configs/hook"
	"github.com/investperdiem/perdiem/pkg/domain"
	"github.com/investperdiem/perdiem/pkg/domain/perdiem"
	"github.com/investperdiem/perdiem/pkg/echoutil"
	"github.com/investperdiem/perdiem/pkg/events"
	"github.com/investperdiem/perdiem/pkg/geocode"
	"github.com/investperdiem/perdiem/pkg/notify"
	"github.com/investperdiem/perdiem/pkg/storage/s3"
	"github.com/investperdiem/perdiem/pkg/tracing"
	"github.com/investperdiem/perdiem/pkg/utils/filewatch"
	"github.com/investperdiem/perdiem/pkg/utils/retry"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	hooksPath := flag.String("hooks", "", "path to email hooks file. it overrides email.hooks in config")
	loglevel := flag.String("loglevel", "info", "log level. debug|info|warn|error|off")
	pcert := flag.String("cert", "", "certification file for TLS")
	pkey := flag.String("certkey", "", "key of certification file for TLS")
	flag.Parse()

	conf, err := configs.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("can not read configration: %s", err)
	}
	hooks := *hooksPath
	if hooks == "" {
		hooks = conf.Email().Hooks()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, conf.Tracing().Endpoint(), conf.Tracing().Service())
	if err != nil {
		log.Fatalf("can not set up tracing: %s", err)
	}
	defer shutdownTracing(context.Background())

	backend, err := cacheBackend(ctx, conf.Cache())
	if err != nil {
		log.Fatalf("can not connect to cache: %s", err)
	}
	store := cache.New(backend, logger("cache"))
	defer store.Close()

	bus := events.New(logger("event-bus"))

	options := []perdiem.Option{perdiem.WithSchemaRepository(conf.Schema())}
	var sign domain.AvatarSigner
	if st := conf.Storage(); st.Bucket() != "" {
		bucket, err := s3.New(ctx, s3.Config{
			Bucket:          st.Bucket(),
			Region:          st.Region(),
			Endpoint:        st.Endpoint(),
			AccessKeyId:     st.AccessKeyId(),
			SecretAccessKey: st.SecretAccessKey(),
			SignedURLTTL:    st.SignedURLTTL(),
		})
		if err != nil {
			log.Fatalf("can not set up storage: %s", err)
		}
		options = append(options, perdiem.WithAvatarBucket(bucket))
		sign = s3.Signer(bucket, logger("storage"))
	}

	pd, err := connect(ctx, conf, store, bus, options...)
	if err != nil {
		log.Fatalf("can not connect to database: %s", err)
	}
	defer pd.Close()

	// serve until the schema in the repository gets newer, or config files are modified.
	sctx, cancelSchema, err := pd.Schema().Serve(ctx)
	if err != nil {
		log.Fatalf("can not serve: %s", err)
	}
	defer cancelSchema()
	wctx, cancelWatch, err := filewatch.UntilModifyContext(sctx, *configPath, hooks)
	if err != nil {
		log.Fatalf("can not watch configration: %s", err)
	}
	defer cancelWatch()

	var mailer handlers.VerificationMailer = nullMailer{}
	if hooks != "" {
		hc, err := hook.Load(hooks)
		if err != nil {
			log.Fatalf("can not read hooks: %s", err)
		}
		n, err := notify.New(
			pd.Subscription().Database(), pd.Subscription(),
			hc, conf.Email().Workers(), logger("notify"),
		)
		if err != nil {
			log.Fatalf("can not start notifier: %s", err)
		}
		defer n.Close()
		bus.Subscribe("notify", n.Handle)
		mailer = n
	}

	geo, err := geocode.New(
		conf.Geocoder().Endpoint(), conf.Geocoder().UserAgent(),
		geocode.WithTimeout(conf.Geocoder().Timeout()),
	)
	if err != nil {
		log.Fatalf("geocoder is misconfigured: %s", err)
	}

	go func() {
		runs, err := warmer.Start(
			wctx, pd.Investor(), conf.Leaderboard().WarmInterval(), 10*time.Minute,
			logger("warmer"),
		)
		log.Printf("leaderboard warmer stopped after %d runs: %v", runs, err)
	}()

	e := echo.New()
	e.Pre(middleware.AddTrailingSlash())

	// set log
	echoutil.SetLevel(e, *loglevel)
	e.HTTPErrorHandler = func(err error, ctx echo.Context) {
		e.DefaultHTTPErrorHandler(err, ctx)
		e.Logger.Error(err)
	}
	e.Use(echoutil.LogHandlerFunc)

	api := func(p ...string) string {
		return path.Join(append([]string{"/api"}, p...)...) + "/"
	}
	route(e, api, pd, geo, sign, mailer)

	log.Println("registred routes:")
	for _, r := range e.Routes() {
		log.Println(r.Method, r.Path)
	}

	context.AfterFunc(wctx, func() {
		log.Printf("shutting down: %v", context.Cause(wctx))
		graceful, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := e.Shutdown(graceful); err != nil {
			log.Printf("error on shutdown: %s", err)
		}
	})

	addr := ":" + strconv.Itoa(int(conf.Port()))
	cert, key := *pcert, *pkey
	if cert != "" && key != "" {
		err = e.StartTLS(addr, cert, key)
	} else {
		err = e.Start(addr)
	}
	if !errors.Is(err, http.ErrServerClosed) {
		e.Logger.Fatal(err)
	}
}

func route(
	e *echo.Echo,
	api func(...string) string,
	pd perdiem.PerDiem,
	geo geocode.Geocoder,
	sign domain.AvatarSigner,
	mailer handlers.VerificationMailer,
) {
	now := time.Now

	{
		campaignId := "campaignId"
		e.POST(
			api("campaigns", ":"+campaignId, "charge"),
			handlers.ChargeHandler(pd.Campaign(), pd.Investor(), campaignId),
		)
		chargeId := "chargeId"
		e.POST(
			api("charges", ":"+chargeId, "refund"),
			handlers.RefundHandler(pd.Campaign(), pd.Investor(), chargeId),
		)
	}

	{
		projectId := "projectId"
		e.POST(api("projects", ":"+projectId, "revenue"), handlers.ReportRevenueHandler(pd.Project(), pd.Investor(), projectId))
		e.PUT(api("projects", ":"+projectId, "breakdown"), handlers.PutBreakdownHandler(pd.Project(), pd.Investor(), projectId))
		e.GET(api("projects", ":"+projectId, "investors"), handlers.ProjectInvestorsHandler(pd.Project(), sign, projectId))
	}

	{
		artistId := "artistId"
		e.GET(api("artists"), handlers.ListArtistsHandler(pd.Artist(), now))
		e.GET(api("artists", ":"+artistId), handlers.GetArtistHandler(pd.Artist(), now, artistId))
		e.GET(api("artists", ":"+artistId, "investors"), handlers.ArtistInvestorsHandler(pd.Artist(), sign, artistId))
		e.GET(api("artists", ":"+artistId, "updates"), handlers.ArtistUpdatesHandler(pd.Artist(), pd.Investor(), artistId))
		e.POST(api("artists", ":"+artistId, "updates"), handlers.PostArtistUpdateHandler(pd.Artist(), pd.Investor(), artistId))
		e.GET(api("genres"), handlers.GenresHandler(pd.Artist()))
		e.GET(api("coordinates"), handlers.CoordinatesHandler(geo))

		updateId := "updateId"
		e.DELETE(api("updates", ":"+updateId), handlers.DeleteUpdateHandler(pd.Artist(), pd.Investor(), updateId))
	}

	{
		username := "username"
		e.POST(api("accounts"), handlers.RegisterHandler(pd.Investor(), pd.Subscription()))
		e.GET(api("leaderboard"), handlers.LeaderboardHandler(pd.Investor(), sign))
		e.GET(api("profile"), handlers.OwnProfileHandler(pd.Investor(), sign))
		e.PUT(api("profile", "anonymity"), handlers.PutAnonymityHandler(pd.Investor(), sign))
		e.PUT(api("profile", "avatar"), handlers.PutAvatarHandler(pd.Investor()))
		e.GET(api("profiles", ":"+username), handlers.ProfileHandler(pd.Investor(), sign, username))
	}

	{
		kind := "kind"
		code := "code"
		e.GET(api("subscriptions"), handlers.SubscriptionsHandler(pd.Subscription()))
		e.PUT(api("subscriptions", ":"+kind), handlers.PutSubscriptionHandler(pd.Subscription(), true, kind))
		e.DELETE(api("subscriptions", ":"+kind), handlers.PutSubscriptionHandler(pd.Subscription(), false, kind))
		e.POST(api("unsubscribe"), handlers.UnsubscribeHandler(pd.Subscription()))
		e.GET(notify.UnsubscribePath+"/", handlers.UnsubscribeHandler(pd.Subscription()))
		e.Match(
			[]string{http.MethodGet, http.MethodPost},
			api("hooks", "mailing-list"), handlers.MailingListHookHandler(pd.Subscription()),
		)
		e.POST(api("email", "verification"), handlers.RequestVerificationHandler(pd.Subscription(), mailer))
		e.GET(notify.VerifyPath+":"+code+"/", handlers.VerifyEmailHandler(pd.Subscription(), code))
	}
}

// connect retries until the database accepts, for a minute.
func connect(
	ctx context.Context,
	conf *configs.Config,
	store *cache.Store,
	bus events.Bus,
	options ...perdiem.Option,
) (perdiem.PerDiem, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	attempt := 0
	return retry.Blocking(
		ctx,
		retry.ExponentialBackoff(500*time.Millisecond, 2, 10*time.Second),
		func(ctx context.Context) (perdiem.PerDiem, error) {
			attempt += 1
			pd, err := perdiem.Default(ctx, conf, store, bus, options...)
			if err != nil {
				log.Printf("connecting database (attempt #%d): %s", attempt, err)
				return nil, fmt.Errorf("%w: %w", retry.ErrRetry, err)
			}
			return pd, nil
		},
	)
}

func cacheBackend(ctx context.Context, conf *configs.CacheConfig) (cache.Backend, error) {
	switch conf.Backend() {
	case configs.CacheRedis:
		r := conf.Redis()
		return redis.New(ctx, redis.Config{Addr: r.Addr(), Password: r.Password(), DB: r.DB()})
	case configs.CacheMemory, "":
		return memory.New(), nil
	}
	return nil, fmt.Errorf("unknown cache backend: %s", conf.Backend())
}

func logger(component string) *log.Logger {
	return log.New(os.Stderr, "["+component+"] ", log.LstdFlags|log.Lmsgprefix)
}

// nullMailer is used when no hooks are configured; verification mails go nowhere.
type nullMailer struct{}

func (nullMailer) SendVerification(context.Context, domain.VerifiedEmail) error {
	return nil
}
