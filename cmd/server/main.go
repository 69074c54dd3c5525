package main

import (
	"context"
	"encoding/csv"
	"flag"
	"os"
	"strconv"

	"github.com/lintang-b-s/waymatch/pkg/costfunction"
	"github.com/lintang-b-s/waymatch/pkg/datastructure"
	"github.com/lintang-b-s/waymatch/pkg/engine/matching"
	"github.com/lintang-b-s/waymatch/pkg/engine/routing"
	"github.com/lintang-b-s/waymatch/pkg/http"
	"github.com/lintang-b-s/waymatch/pkg/http/usecases"
	"github.com/lintang-b-s/waymatch/pkg/logger"
	"github.com/lintang-b-s/waymatch/pkg/spatialindex"
	"github.com/lintang-b-s/waymatch/pkg/util"
	"go.uber.org/zap"
)

var (
	graphFile             = flag.String("graph", "./data/waymatch.graph", "road network graph file")
	restrictionFile       = flag.String("restrictions", "", "turn restriction csv file, enables edge based routing")
	leafBoundingBoxRadius = flag.Float64("leaf_bounding_box_radius", 0.05, "leaf node (r-tree) bounding box radius in km")
	snapRadius            = flag.Float64("snap_radius", 0.2, "origin/destination snapping radius in km")
	useRateLimit          = flag.Bool("rate_limit", false, "rate limit api requests per client ip")
)

func main() {
	flag.Parse()
	log, err := logger.New()
	if err != nil {
		panic(err)
	}

	if err := util.ReadConfig(); err != nil {
		log.Info("no config file found, using defaults")
	}

	graph, err := datastructure.ReadGraph(*graphFile)
	if err != nil {
		log.Fatal("read graph file", zap.Error(err))
	}
	log.Info("road network loaded",
		zap.Int("vertices", graph.NumberOfVertices()),
		zap.Int("edges", graph.NumberOfEdges()))

	rtree := spatialindex.NewRtree()
	rtree.Build(graph, *leafBoundingBoxRadius, log)

	var (
		costFn routing.CostFunction
		mode   routing.TraversalMode
	)
	if *restrictionFile != "" {
		turnCostFn := costfunction.NewTurnCostFunction(graph)
		n, err := loadRestrictions(*restrictionFile, turnCostFn)
		if err != nil {
			log.Fatal("read restriction file", zap.Error(err))
		}
		log.Info("edge based routing enabled", zap.Int("turn_restrictions", n))
		costFn = turnCostFn
		mode = routing.EdgeBasedDirectionSensitive
	} else {
		costFn = costfunction.NewFastestCostFunction()
		mode = routing.NodeBased
	}

	hmm := matching.NewHMMMapMatching(graph, rtree, costFn, log)

	routingService := usecases.NewRoutingService(log, graph, rtree, costFn, mode, *snapRadius)
	mapMatcherService := usecases.NewMapMatcherService(log, hmm)

	api := http.NewServer(log)

	ctx, cancel := context.WithCancel(context.Background())
	if _, err := api.Use(ctx, log, *useRateLimit, routingService, mapMatcherService); err != nil {
		log.Fatal("start api server", zap.Error(err))
	}

	sig := http.GracefulShutdown()
	log.Info("waymatch server stopped", zap.String("signal", sig.String()))
	cancel()
}

func loadRestrictions(filename string, costFn *costfunction.TurnCostFunction) (int, error) {
	f, err := os.Open(filename)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return 0, err
	}

	for _, row := range rows {
		if len(row) != 2 {
			continue
		}
		from, err := strconv.ParseInt(row[0], 10, 32)
		if err != nil {
			return 0, err
		}
		to, err := strconv.ParseInt(row[1], 10, 32)
		if err != nil {
			return 0, err
		}
		costFn.AddRestriction(datastructure.Index(from), datastructure.Index(to))
	}
	return len(rows), nil
}
