package config

import "github.com/spf13/pflag"

// Flags holds command-line overrides. Only flags the user actually set are
// applied, so a flag default never hides a value from the config file.
type Flags struct {
	fs *pflag.FlagSet

	ConfigPath string
	Debug      bool
	Width      int
	Height     int
	Fullscreen bool
	Texture    string
	Watch      bool
	Smooth     bool
	LogFile    string
	SaveConfig bool
}

// BindFlags registers the viewer flags on fs.
func BindFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	fs.StringVarP(&f.ConfigPath, "config", "c", "", "path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "enable debug logging")
	fs.IntVar(&f.Width, "width", 0, "window width")
	fs.IntVar(&f.Height, "height", 0, "window height")
	fs.BoolVar(&f.Fullscreen, "fullscreen", false, "run fullscreen")
	fs.StringVarP(&f.Texture, "texture", "t", "", "texture image for the model")
	fs.BoolVarP(&f.Watch, "watch", "w", false, "reload the model when the file changes")
	fs.BoolVar(&f.Smooth, "smooth", false, "ease rotation changes with a spring")
	fs.StringVar(&f.LogFile, "log-file", "", "also write logs to this rotating file")
	fs.BoolVar(&f.SaveConfig, "save-config", false, "write the effective config to the user config file and exit")
	return f
}

func (f *Flags) changed(name string) bool {
	return f.fs != nil && f.fs.Changed(name)
}

// apply copies set flags over cfg.
func (f *Flags) apply(cfg *Config) {
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.Width > 0 {
		cfg.Window.Width = f.Width
	}
	if f.Height > 0 {
		cfg.Window.Height = f.Height
	}
	if f.changed("fullscreen") {
		cfg.Window.Fullscreen = f.Fullscreen
	}
	if f.Texture != "" {
		cfg.Model.Texture = f.Texture
	}
	if f.changed("watch") {
		cfg.Model.Watch = f.Watch
	}
	if f.changed("smooth") {
		cfg.Controls.Smooth = f.Smooth
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
}
