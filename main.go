package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	advisoryapp "nautilus-one/internal/advisory/application"
	advisory "nautilus-one/internal/advisory/domain"
	advisoryinterfaces "nautilus-one/internal/advisory/interfaces"
	advisoryhttp "nautilus-one/internal/advisory/interfaces/http"
	advisorynotify "nautilus-one/internal/advisory/notify"
	"nautilus-one/internal/advisory/scoring"
	apihttp "nautilus-one/internal/api/http"
	"nautilus-one/internal/eventing"
	incidentsapp "nautilus-one/internal/incidents/application"
	incidentsrepo "nautilus-one/internal/incidents/infrastructure/postgres"
	incidentsinterfaces "nautilus-one/internal/incidents/interfaces"
	"nautilus-one/internal/observability/metrics"
	telemetry "nautilus-one/internal/telemetry/domain"
	telemetrypostgres "nautilus-one/internal/telemetry/infrastructure/postgres"
	"nautilus-one/internal/telemetry/interfaces/ingest"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := loadConfig()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("db open error: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("db ping error: %v", err)
	}

	metrics.Init(db, logger)

	policy, err := advisoryapp.LoadPolicyConfig()
	if err != nil {
		logger.Fatalf("policy config error: %v", err)
	}

	bus := eventing.NewInMemoryBus()
	publisher := eventing.NewPublisher(bus, policy.VesselID)

	telemetryRepo := telemetrypostgres.NewTelemetryRepository(db)
	latestReader := telemetrypostgres.NewLatestSnapshotReader(db)

	incidentRepo := incidentsrepo.NewIncidentRepository(db)
	recorder, err := incidentsapp.NewRecorder(incidentRepo)
	if err != nil {
		logger.Fatalf("incident recorder error: %v", err)
	}

	broker := advisoryhttp.NewSSEBroker()
	notifiers := []advisoryapp.Notifier{broker}
	if cfg.MQTTBroker != "" {
		opts := mqtt.NewClientOptions().AddBroker(cfg.MQTTBroker).SetClientID(cfg.MQTTClientID)
		client := mqtt.NewClient(opts)
		if token := client.Connect(); token.Wait() && token.Error() != nil {
			logger.Fatalf("mqtt connect error: %v", token.Error())
		}
		defer client.Disconnect(250)
		mqttNotifier, err := advisorynotify.NewMQTTNotifier(client, policy.Namespace, logger)
		if err != nil {
			logger.Fatalf("mqtt notifier error: %v", err)
		}
		notifiers = append(notifiers, mqttNotifier)
	}
	notifier := advisorynotify.NewMultiNotifier(notifiers...)

	commonOpts := []advisoryapp.Option{
		advisoryapp.WithNotifier(notifier),
		advisoryapp.WithRecorder(recorder),
		advisoryapp.WithVesselID(policy.VesselID),
	}

	pipelines := map[string]*advisoryapp.Pipeline{}
	buildThresholdPipeline := func(module string, scorer scoring.Scorer, defaults advisory.RuleTable, fallback advisory.Result) *advisoryapp.Pipeline {
		table, err := policy.RuleTable(module, defaults)
		if err != nil {
			logger.Fatalf("%s policy error: %v", module, err)
		}
		classifier, err := scoring.NewThresholdClassifier(scorer, table)
		if err != nil {
			logger.Fatalf("%s classifier error: %v", module, err)
		}
		pipeline, err := advisoryapp.NewPipeline(module, classifier, logger,
			append(commonOpts, advisoryapp.WithFallback(fallback))...)
		if err != nil {
			logger.Fatalf("%s pipeline error: %v", module, err)
		}
		pipelines[module] = pipeline
		return pipeline
	}

	dpScorer, err := scoring.NewModelScorer(telemetry.DPFeatureSpec(), scoring.NewLazySession(cfg.DPModelPath), scoring.WithScorerLogger(logger))
	if err != nil {
		logger.Fatalf("dp scorer error: %v", err)
	}
	dpPipeline := buildThresholdPipeline("dp", dpScorer, advisory.DPRules(), advisory.DPErrorResult())

	maintScorer, err := scoring.NewModelScorer(telemetry.MaintenanceFeatureSpec(), scoring.NewLazySession(cfg.MaintModelPath), scoring.WithScorerLogger(logger))
	if err != nil {
		logger.Fatalf("maintenance scorer error: %v", err)
	}
	maintPipeline := buildThresholdPipeline("maintenance", maintScorer, advisory.MaintenanceRules(), advisory.MaintenanceErrorResult())

	complianceScorer, err := scoring.NewFieldMeanScorer([]string{"nonConformities", "overdueAudits", "docExpiry"})
	if err != nil {
		logger.Fatalf("compliance scorer error: %v", err)
	}
	compliancePipeline := buildThresholdPipeline("compliance", complianceScorer, advisory.ComplianceRules(), advisory.ComplianceErrorResult())

	forecastScorer, err := scoring.NewFieldMeanScorer([]string{"windTrend", "currentTrend", "pressureDrop"})
	if err != nil {
		logger.Fatalf("forecast scorer error: %v", err)
	}
	forecastPipeline := buildThresholdPipeline("forecast", forecastScorer, advisory.ForecastRules(), advisory.ForecastErrorResult())

	sgsoClassifier, err := scoring.NewKeywordClassifier(
		[]string{"description", "notes"},
		scoring.SGSOKeywordRules(),
		advisory.LevelSGSOModerate,
		advisory.SGSOCatalog(),
	)
	if err != nil {
		logger.Fatalf("sgso classifier error: %v", err)
	}
	sgsoPipeline, err := advisoryapp.NewPipeline("sgso", sgsoClassifier, logger,
		append(commonOpts, advisoryapp.WithFallback(advisory.SGSOErrorResult()))...)
	if err != nil {
		logger.Fatalf("sgso pipeline error: %v", err)
	}
	pipelines["sgso"] = sgsoPipeline

	if cfg.GenAIKey != "" {
		chatModel, err := scoring.NewGenAIModel(context.Background(), cfg.GenAIKey, cfg.GenAIModel)
		if err != nil {
			logger.Fatalf("genai model error: %v", err)
		}
		incidentClassifier, err := scoring.NewLLMClassifier(
			chatModel,
			advisory.IncidentCatalog(),
			scoring.SGSOCategories(),
			[]string{"description", "immediateActions"},
		)
		if err != nil {
			logger.Fatalf("incident classifier error: %v", err)
		}
		incidentPipeline, err := advisoryapp.NewPipeline("incident", incidentClassifier, logger,
			append(commonOpts, advisoryapp.WithFallback(advisory.IncidentErrorResult()))...)
		if err != nil {
			logger.Fatalf("incident pipeline error: %v", err)
		}
		pipelines["incident"] = incidentPipeline
	} else {
		logger.Printf("GENAI_API_KEY not set, incident classification disabled")
	}

	consumer, err := advisoryinterfaces.NewTelemetryConsumer(map[string][]*advisoryapp.Pipeline{
		policy.SystemID("dp", "dp-main"):            {dpPipeline},
		policy.SystemID("maintenance", "machinery"): {maintPipeline},
		policy.SystemID("compliance", "compliance"): {compliancePipeline},
		policy.SystemID("forecast", "weather"):      {forecastPipeline},
	}, logger)
	if err != nil {
		logger.Fatalf("telemetry consumer error: %v", err)
	}
	consumer.Register(bus)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	for _, spec := range []struct {
		pipeline *advisoryapp.Pipeline
		systemID string
		interval time.Duration
	}{
		{dpPipeline, policy.SystemID("dp", "dp-main"), policy.Interval("dp", 30*time.Second)},
		{maintPipeline, policy.SystemID("maintenance", "machinery"), policy.Interval("maintenance", time.Minute)},
		{compliancePipeline, policy.SystemID("compliance", "compliance"), policy.Interval("compliance", 5*time.Minute)},
		{forecastPipeline, policy.SystemID("forecast", "weather"), policy.Interval("forecast", time.Minute)},
	} {
		poller := advisoryapp.NewPoller(spec.pipeline, latestReader, policy.VesselID, spec.systemID, spec.interval, logger)
		go poller.Run(ctx)
	}

	ingestHandler, err := ingest.NewHandler(telemetryRepo, publisher, logger)
	if err != nil {
		logger.Fatalf("ingest handler error: %v", err)
	}
	classifyHandler, err := advisoryhttp.NewClassifyHandler(pipelines)
	if err != nil {
		logger.Fatalf("classify handler error: %v", err)
	}
	incidentHandler, err := incidentsinterfaces.NewIncidentHandler(incidentRepo)
	if err != nil {
		logger.Fatalf("incident handler error: %v", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/ingest/telemetry", ingestHandler)
	mux.Handle("/api/v1/advisory/classify", classifyHandler)
	mux.Handle("/api/v1/advisory/stream", advisoryhttp.NewStreamHandler(broker))
	mux.Handle("/api/v1/incidents", incidentHandler)
	mux.Handle("/api/v1/incidents/", incidentHandler)
	mux.Handle("/api/v1/advisory/stats", apihttp.NewStatsHandler(db))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: loggingMiddleware(mux, logger)}
	logger.Printf("http listening on %s", cfg.HTTPAddr)
	logger.Fatal(server.ListenAndServe())
}

type config struct {
	DatabaseURL    string
	HTTPAddr       string
	MQTTBroker     string
	MQTTClientID   string
	GenAIKey       string
	GenAIModel     string
	DPModelPath    string
	MaintModelPath string
}

func loadConfig() config {
	cfg := config{
		DatabaseURL:    getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
		HTTPAddr:       getenvDefault("HTTP_ADDR", ":8080"),
		MQTTBroker:     getenvDefault("MQTT_BROKER_URL", ""),
		MQTTClientID:   getenvDefault("MQTT_CLIENT_ID", "nautilus-one"),
		GenAIKey:       getenvDefault("GENAI_API_KEY", ""),
		GenAIModel:     getenvDefault("GENAI_MODEL", "gemini-2.5-flash"),
		DPModelPath:    getenvDefault("DP_MODEL_PATH", "var/models/dp.json"),
		MaintModelPath: getenvDefault("MAINT_MODEL_PATH", "var/models/maintenance.json"),
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL or PG_DSN is required")
	}
	return cfg
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
