package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	_ "github.com/seen-one/Route-Crafter/docs"
	"github.com/seen-one/Route-Crafter/pkg/admission"
	"github.com/seen-one/Route-Crafter/pkg/inspector"
	"github.com/seen-one/Route-Crafter/pkg/kv"
	"github.com/seen-one/Route-Crafter/pkg/osmgraph"
	"github.com/seen-one/Route-Crafter/pkg/server/rest"
	"github.com/seen-one/Route-Crafter/pkg/server/rest/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "net/http/pprof"

	"github.com/cockroachdb/pebble"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

var (
	listenAddr       = flag.String("listenaddr", ":5000", "server listen address")
	overpassEndpoint = flag.String("overpass", osmgraph.DefaultOverpassEndpoint, "overpass api endpoint for fetching streets")
	dbDir            = flag.String("db", "routecrafterDB", "pebble db directory for street buckets and the graph cache")
	routeBudget      = flag.Int64("budget", 4, "how many route computations may run at once")
	routeTimeout     = flag.Duration("timeout", 120*time.Second, "wall clock limit of one route computation")
	maxAreaKm2       = flag.Float64("maxarea", 25, "maximum polygon area in km2")
)

//	@title			Route-Crafter API
//	@version		1.0
//	@description	generate routes that cover every street inside a drawn polygon

//	@contact.name	seen-one

//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT

// @host		localhost:5000
// @BasePath	/api
// @schemes	http
func main() {
	flag.Parse()

	db, err := pebble.Open(*dbDir, &pebble.Options{})
	if err != nil {
		log.Fatal(err)
	}

	kvDB := kv.NewKVDB(db)
	defer kvDB.Close()

	reg := prometheus.NewRegistry()
	m := rest.NewMetrics(reg)

	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)

	r.Use(rest.PromeHttpMiddleware(m)) // prometheus http middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Mount("/debug", middleware.Profiler())

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:5000/swagger/doc.json"), //The url pointing to API definition
	))

	overpass := osmgraph.NewOverpassClient(*overpassEndpoint, 3*time.Minute)
	controller := admission.NewController(*routeBudget, *routeTimeout)
	routeInspector := inspector.NewRouteInspector(inspector.PickAvoidBacktrack)

	routeSvc := service.NewRouteCrafterService(overpass, kvDB, routeInspector, controller, *maxAreaKm2)
	rest.RouteCrafterRouter(r, routeSvc, m)

	fmt.Printf("server started at %s\n", *listenAddr)
	log.Fatal(http.ListenAndServe(*listenAddr, r))
}
