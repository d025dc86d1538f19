package main

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/km-arc/go-container/framework/app"
	"github.com/km-arc/go-container/framework/container"
	gohttp "github.com/km-arc/go-container/framework/http"
	"github.com/km-arc/go-container/framework/routing"
)

// Greeter is a toy service wired through the container.
type Greeter struct {
	Greeting string
	log      *zap.Logger
}

func (g *Greeter) Greet(name string) string {
	g.log.Debug("greeting", zap.String("name", name))
	return g.Greeting + ", " + name + "!"
}

// AppServiceProvider binds the application's own services.
type AppServiceProvider struct {
	container.BaseProvider
}

func (p *AppServiceProvider) Register(c *container.Container) {
	c.Instance("greeting", "Hello")

	_ = c.Singleton("greeter", func(ctx *container.Context) any {
		c := ctx.Container()
		return &Greeter{
			Greeting: container.MustGet[string](c, "greeting"),
			log:      container.MustGet[*zap.Logger](c, "logger").Named("greeter"),
		}
	})
}

func (p *AppServiceProvider) Boot(c *container.Container) {
	router := container.MustGet[*routing.Router](c, "router")

	router.Get("/", func(w http.ResponseWriter, req *http.Request) {
		gohttp.NewResponse(w).Success(map[string]any{
			"message":  "Welcome to Go-Container!",
			"bindings": c.Keys(),
		})
	})

	router.Get("/hello/{name}", func(w http.ResponseWriter, req *http.Request) {
		greeter := container.MustGet[*Greeter](c, "greeter")
		gohttp.NewResponse(w).Success(map[string]any{
			"message":    greeter.Greet(routing.Param(req, "name")),
			"request_id": container.MustGet[string](c, "request.id", "req"),
		})
	})
}

func main() {
	application := app.New() // loads .env automatically
	application.RegisterProvider(&AppServiceProvider{})

	// Decorate the greeting before anything resolves it.
	_ = application.Extend("greeting", func(old any, _ *container.Container) container.Entry {
		return container.Value(old.(string) + " there")
	})

	application.Run()
}
