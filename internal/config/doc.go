// Package config loads textcore settings.
//
// Settings come from three layers, higher overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← TEXTCORE_ENGINE_MAX_UNDO=50
//	├─────────────────────────────┤
//	│  2. Config File             │  ← textcore.toml or textcore.yaml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Default()
//	└─────────────────────────────┘
//
// A file is parsed by extension: .toml with go-toml, .yaml or .yml with
// yaml.v3. Unknown keys are errors and come back as a *ParseError with
// the line of the offending key.
//
// # Usage
//
//	cfg, err := config.Load("textcore.toml")
//	if err != nil {
//	    var pe *config.ParseError
//	    if errors.As(err, &pe) { ... }
//	}
//
// Every setting also has a dotted path usable with Get and Set:
//
//	cfg.Set("engine.tab_width", "8")
//
// # Live Reload
//
// A Watcher follows the file with fsnotify and hands each reloaded
// configuration to a callback:
//
//	w, _ := config.NewWatcher(path, func(cfg *config.Config, err error) {
//	    if err == nil {
//	        session.ApplyConfig(cfg.Engine)
//	    }
//	})
//	go w.Run(ctx)
package config
