package web

import (
	"math"
	"net/http"

	"github.com/dmitrymomot/tagform/handler"
)

const (
	defaultName = "toto"
	defaultAge  = "10"
)

var fruits = []string{"pommes", "poires", "oranges", "grenades"}

var errSumOverflow = handler.NewHTTPError(http.StatusBadRequest, "add.sum_overflow")

func (a *App) index(_ handler.Context, _ struct{}) handler.Response {
	return handler.Templ(indexPage())
}

func (a *App) notFound(_ handler.Context, _ struct{}) handler.Response {
	return handler.Error(handler.ErrNotFound)
}

type homeRequest struct {
	Name string  `path:"name"`
	Age  *string `query:"age"`
}

func (a *App) home(ctx handler.Context, req homeRequest) handler.Response {
	name := req.Name
	if name == "" {
		name = defaultName
	}
	age := defaultAge
	if req.Age != nil {
		age = *req.Age
	}

	return handler.Templ(homePage(homeView{
		Name:     name,
		Age:      age,
		Fruits:   fruits,
		Greeting: a.greeter.Greet(ctx, name),
	}))
}

// addRequest operands are matched by \d+ in the route, so they are never negative.
type addRequest struct {
	N1 uint64 `path:"n1"`
	N2 uint64 `path:"n2"`
}

func (a *App) add(_ handler.Context, req addRequest) handler.Response {
	if req.N1 > math.MaxUint64-req.N2 {
		return handler.Error(errSumOverflow)
	}
	return handler.Templ(addPage(req.N1, req.N2, req.N1+req.N2))
}
