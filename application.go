package ui

import (
	"golang.org/x/net/html"
)

// Application holds the top level regions of a document and runs its
// initializers on Start.
type Application struct {
	Events

	doc          *html.Node
	regions      *RegionManager
	channel      *Channel
	initializers []func(Options) error
	started      bool
}

// NewApplication returns an application whose selector regions are looked
// up in doc. An empty channelName selects DefaultChannel.
func NewApplication(doc *html.Node, channelName string) *Application {
	if channelName == "" {
		channelName = DefaultChannel
	}
	app := &Application{
		doc:     doc,
		regions: NewRegionManager(),
		channel: GetChannel(channelName),
	}
	for _, name := range []string{"before:add:region", "add:region", "before:remove:region", "remove:region"} {
		name := name
		app.ListenTo(app.regions, name, NewEventHandler(func(evt Event) bool {
			app.TriggerMethod(name, evt.Args...)
			return false
		}))
	}
	return app
}

func (app *Application) Document() *html.Node { return app.doc }
func (app *Application) Channel() *Channel    { return app.channel }

func (app *Application) regionDefaults() RegionDefinition {
	return RegionDefinition{ParentElement: func() *html.Node { return app.doc }}
}

func (app *Application) AddRegions(defs RegionDefinitions) (map[string]*Region, error) {
	return app.regions.AddRegions(defs, app.regionDefaults())
}

func (app *Application) AddRegion(name string, d RegionDefinition) (*Region, error) {
	if d.Region == nil && d.Selector != "" {
		d = d.withDefaults(app.regionDefaults())
	}
	return app.regions.AddRegion(name, d)
}

func (app *Application) GetRegion(name string) *Region { return app.regions.Get(name) }

func (app *Application) RemoveRegion(name string) *Region { return app.regions.RemoveRegion(name) }

func (app *Application) EmptyRegions() { app.regions.EmptyRegions() }

// Regions returns the application's region manager.
func (app *Application) Regions() *RegionManager { return app.regions }

// AddInitializer registers fn to run on Start, or runs it right away when
// the application already started.
func (app *Application) AddInitializer(fn func(Options) error) error {
	if app.started {
		return fn(nil)
	}
	app.initializers = append(app.initializers, fn)
	return nil
}

// Start runs the initializers in registration order between the
// before:start and start events. It stops at the first failing initializer.
func (app *Application) Start(opts Options) error {
	app.TriggerMethod("before:start", opts)
	for _, fn := range app.initializers {
		if err := fn(opts); err != nil {
			return err
		}
	}
	app.started = true
	app.initializers = nil
	app.TriggerMethod("start", opts)
	return nil
}

// Destroy removes every region, destroying the views they show.
func (app *Application) Destroy() {
	app.regions.Destroy()
	app.StopListening(nil, "", nil)
	app.Off("", nil)
}
