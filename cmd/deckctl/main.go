// deckctl is a small control utility for Stream Deck panels: list connected
// devices, set brightness and key images, apply a YAML layout, or tail the
// event stream.
package main

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	_ "golang.org/x/image/bmp"
	"gopkg.in/yaml.v3"

	"github.com/seagrayinc/streamdeck"
)

func main() {
	root := &cobra.Command{
		Use:           "deckctl",
		Short:         "Control Elgato Stream Deck panels",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		listCmd(),
		infoCmd(),
		brightnessCmd(),
		resetCmd(),
		setImageCmd(),
		clearCmd(),
		applyCmd(),
		listenCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "deckctl:", err)
		os.Exit(1)
	}
}

func openFirst() (*streamdeck.Device, error) {
	d, err := streamdeck.OpenFirst()
	if err != nil {
		return nil, err
	}
	return d, nil
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List connected panels",
		RunE: func(cmd *cobra.Command, args []string) error {
			devs, err := streamdeck.Enumerate()
			if err != nil {
				return err
			}
			if len(devs) == 0 {
				fmt.Println("no panels found")
				return nil
			}
			for _, d := range devs {
				rows, cols := d.KeyLayout()
				fmt.Printf("%-24s %dx%d keys  %s\n", d.ModelName(), rows, cols, d.Path())
			}
			return nil
		},
	}
}

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show details of the first connected panel",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := openFirst()
			if err != nil {
				return err
			}
			defer d.Close()

			rows, cols := d.KeyLayout()
			fmt.Println("model:   ", d.ModelName())
			fmt.Printf("keys:     %d (%dx%d)\n", d.KeyCount(), rows, cols)
			if d.DialCount() > 0 {
				fmt.Println("dials:   ", d.DialCount())
			}
			if d.Visual() {
				f := d.KeyImageFormat()
				fmt.Printf("key img:  %dx%d %s\n", f.Width, f.Height, f.Format)
			}
			if d.HasTouchScreen() {
				sz := d.TouchScreenSize()
				fmt.Printf("touch:    %dx%d\n", sz.X, sz.Y)
			}
			if serial, err := d.SerialNumber(); err == nil {
				fmt.Println("serial:  ", serial)
			}
			if fw, err := d.FirmwareVersion(); err == nil {
				fmt.Println("firmware:", fw)
			}
			return nil
		},
	}
}

func brightnessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "brightness <percent>",
		Short: "Set panel backlight brightness (0-100)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			percent, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("parse percent: %w", err)
			}
			d, err := openFirst()
			if err != nil {
				return err
			}
			defer d.Close()
			return d.SetBrightness(percent)
		},
	}
}

func resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Reset the panel to its standby image",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := openFirst()
			if err != nil {
				return err
			}
			defer d.Close()
			return d.Reset()
		},
	}
}

func setImageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-image <key> <file>",
		Short: "Show an image file on one key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("parse key: %w", err)
			}
			img, err := loadImage(args[1])
			if err != nil {
				return err
			}
			d, err := openFirst()
			if err != nil {
				return err
			}
			defer d.Close()
			return d.SetKeyImage(key, img)
		},
	}
}

func clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear [key]",
		Short: "Clear one key, or all keys when none is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := openFirst()
			if err != nil {
				return err
			}
			defer d.Close()
			if len(args) == 0 {
				return d.ClearAllKeys()
			}
			key, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("parse key: %w", err)
			}
			return d.ClearKey(key)
		},
	}
}

// layout is the YAML document consumed by "deckctl apply".
type layout struct {
	Brightness *int `yaml:"brightness"`
	Keys       []struct {
		Key   int    `yaml:"key"`
		Image string `yaml:"image"`
		Clear bool   `yaml:"clear"`
	} `yaml:"keys"`
	TouchImage string `yaml:"touch_image"`
}

func applyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply <layout.yaml>",
		Short: "Apply a YAML layout of key images and brightness",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var l layout
			if err := yaml.Unmarshal(raw, &l); err != nil {
				return fmt.Errorf("parse layout: %w", err)
			}

			d, err := openFirst()
			if err != nil {
				return err
			}
			defer d.Close()

			if l.Brightness != nil {
				if err := d.SetBrightness(*l.Brightness); err != nil {
					return err
				}
			}
			for _, k := range l.Keys {
				if k.Clear {
					if err := d.ClearKey(k.Key); err != nil {
						return err
					}
					continue
				}
				img, err := loadImage(k.Image)
				if err != nil {
					return fmt.Errorf("key %d: %w", k.Key, err)
				}
				if err := d.SetKeyImage(k.Key, img); err != nil {
					return fmt.Errorf("key %d: %w", k.Key, err)
				}
			}
			if l.TouchImage != "" {
				img, err := loadImage(l.TouchImage)
				if err != nil {
					return err
				}
				if err := d.SetTouchScreenImage(img); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func listenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listen",
		Short: "Print key, dial and touch events until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(
				context.Background(),
				os.Interrupt,
				syscall.SIGTERM, syscall.SIGINT,
			)
			defer stop()

			d, err := openFirst()
			if err != nil {
				return err
			}
			defer d.Close()

			d.SetCallback(func(_ *streamdeck.Device, ev streamdeck.Event) {
				switch ev.Kind {
				case streamdeck.KeyChange:
					fmt.Printf("key %d %s\n", ev.Index, pressedWord(ev.Pressed))
				case streamdeck.DialPress:
					fmt.Printf("dial %d %s\n", ev.Index, pressedWord(ev.Pressed))
				case streamdeck.DialRotate:
					fmt.Printf("dial %d rotated %+d\n", ev.Index, ev.Delta)
				case streamdeck.TouchChange:
					fmt.Printf("touch %v at (%d, %d)\n", ev.Touch, ev.X, ev.Y)
				}
			})
			d.SetDisconnectCallback(func(*streamdeck.Device) {
				fmt.Println("panel disconnected")
				stop()
			})
			if err := d.Listen(); err != nil {
				return err
			}

			fmt.Printf("listening on %s, ctrl-c to quit\n", d.ModelName())
			<-ctx.Done()
			d.StopListening()
			return nil
		},
	}
}

func pressedWord(pressed bool) string {
	if pressed {
		return "pressed"
	}
	return "released"
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}
