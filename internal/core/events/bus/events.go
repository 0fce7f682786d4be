package bus

// Engine event types.
const (
	TypeWorldOpened   = "world.opened"
	TypeWorldClosed   = "world.closed"
	TypeStageChanged  = "game.stage"
	TypeModLoaded     = "mod.loaded"
	TypeAssetReloaded = "asset.reloaded"
)

// StageChange is the payload of TypeStageChanged.
type StageChange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// AssetReload is the payload of TypeAssetReloaded.
type AssetReload struct {
	Asset string `json:"asset"`
	Path  string `json:"path"`
}

// OnType adapts a typed payload handler into an EventHandler. Events whose
// payload is not a T are ignored.
func OnType[T any](fn func(T) error) EventHandler {
	return func(event Event) error {
		payload, ok := event.Data().(T)
		if !ok {
			return nil
		}
		return fn(payload)
	}
}
