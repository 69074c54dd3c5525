package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/julienschmidt/httprouter"
	"github.com/lintang-b-s/waymatch/pkg/datastructure"
	helper "github.com/lintang-b-s/waymatch/pkg/http/router/routerhelper"
	"go.uber.org/zap"
)

type routingAPI struct {
	routingService    RoutingService
	mapMatcherService MapMatcherService
	log               *zap.Logger
}

func New(routingService RoutingService, mapMatcherService MapMatcherService,
	log *zap.Logger) *routingAPI {
	return &routingAPI{
		routingService:    routingService,
		mapMatcherService: mapMatcherService,
		log:               log,
	}
}

func (api *routingAPI) Routes(group *helper.RouteGroup) {
	navigation := group.Group("/navigation")
	navigation.GET("/route", api.shortestPath)
	navigation.POST("/match", api.mapMatch)
}

func (api *routingAPI) validationError(w http.ResponseWriter, r *http.Request,
	validate *validator.Validate, err error) {
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)
	vv := translateError(err, trans)
	vvString := []string{}
	for _, v := range vv {
		vvString = append(vvString, v.Error())
	}
	api.BadRequestResponse(w, r, fmt.Errorf("validation error: %v", vvString))
}

// shortestPath godoc
//
//	@Summary		shortest path between two coordinates
//	@Description	bidirectional dijkstra over the road network, returns eta in minutes, distance in meter and the route polyline
//	@Tags			routing
//	@Param			origin_lat		query	number	true	"origin latitude"
//	@Param			origin_lon		query	number	true	"origin longitude"
//	@Param			destination_lat	query	number	true	"destination latitude"
//	@Param			destination_lon	query	number	true	"destination longitude"
//	@Produce		json
//	@Success		200	{object}	shortestPathResponse
//	@Router			/navigation/route [get]
func (api *routingAPI) shortestPath(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var (
		request shortestPathRequest
		err     error
	)

	query := r.URL.Query()

	request.OriginLat, err = strconv.ParseFloat(query.Get("origin_lat"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("origin_lat is required and must be a valid float"))
		return
	}
	request.OriginLon, err = strconv.ParseFloat(query.Get("origin_lon"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("origin_lon is required and must be a valid float"))
		return
	}
	request.DestinationLat, err = strconv.ParseFloat(query.Get("destination_lat"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("destination_lat is required and must be a valid float"))
		return
	}
	request.DestinationLon, err = strconv.ParseFloat(query.Get("destination_lon"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("destination_lon is required and must be a valid float"))
		return
	}

	validate := validator.New()
	if err := validate.Struct(request); err != nil {
		api.validationError(w, r, validate, err)
		return
	}

	travelTime, dist, pathPolyline, err := api.routingService.ShortestPath(
		request.OriginLat, request.OriginLon,
		request.DestinationLat, request.DestinationLon)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	headers := make(http.Header)
	if err := api.writeJSON(w, http.StatusOK,
		envelope{"data": NewShortestPathResponse(travelTime, dist, pathPolyline)}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

// mapMatch godoc
//
//	@Summary		match a gps trace onto the road network
//	@Description	hidden markov model map matching of a full gps trace, returns the matched road positions and the route polyline
//	@Tags			matching
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	mapMatchResponse
//	@Router			/navigation/match [post]
func (api *routingAPI) mapMatch(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request mapMatchBatchRequest

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := r.Body.Close(); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}

	validate := validator.New()
	if err := validate.Struct(request); err != nil {
		api.validationError(w, r, validate, err)
		return
	}

	observations := make([]datastructure.GPSPoint, 0, len(request.Gps))
	for _, point := range request.Gps {
		observations = append(observations, point.ToDataGPS())
	}

	matched, pathPolyline, err := api.mapMatcherService.MapMatch(observations)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	headers := make(http.Header)
	if err := api.writeJSON(w, http.StatusOK,
		envelope{"data": NewMapMatchResponse(matched, pathPolyline)}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}
