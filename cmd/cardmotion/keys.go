package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ivlev/cardmotion/internal/controller"
	"github.com/ivlev/cardmotion/internal/document"
	"github.com/ivlev/cardmotion/internal/easing"
	"github.com/ivlev/cardmotion/internal/editor"
	"github.com/ivlev/cardmotion/internal/timeline"
)

// editDocument loads the document, runs fn with an editor and saves the
// result when fn reports a change.
func editDocument(fn func(tl *timeline.Timeline, ed *editor.Editor) (bool, error)) error {
	tl, path, err := loadTimeline()
	if err != nil {
		return err
	}
	changed, err := fn(tl, editor.New(tl))
	if err != nil {
		return err
	}
	if !changed {
		fmt.Println("[!] Nothing changed (track locked or keyframe missing)")
		return nil
	}
	return document.Write(tl, path)
}

func keyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Edit keyframes",
	}
	cmd.AddCommand(keyAddCmd(), keyMoveCmd(), keyDeleteCmd(), keyShapeCmd(), keyListCmd())
	return cmd
}

func keyListCmd() *cobra.Command {
	var prop string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List keyframes of a property",
		RunE: func(cmd *cobra.Command, args []string) error {
			tl, _, err := loadTimeline()
			if err != nil {
				return err
			}
			p, t, err := findProperty(tl, prop)
			if err != nil {
				return err
			}
			fmt.Printf("[*] %s/%s (%s)\n", t.Name, p.Name, p.Type)
			for _, k := range p.Keyframes {
				fmt.Printf("    %s  %7.3fs  %-14s %-6s %s\n", k.ID, k.Time, k.Easing, k.Interpolation, k.Value)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&prop, "property", "p", "", "Property as track/name or name")
	cmd.MarkFlagRequired("property")
	return cmd
}

func keyAddCmd() *cobra.Command {
	var (
		prop  string
		at    float64
		value string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add or overwrite a keyframe",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseValue(value)
			if err != nil {
				return err
			}
			return editDocument(func(tl *timeline.Timeline, ed *editor.Editor) (bool, error) {
				p, _, err := findProperty(tl, prop)
				if err != nil {
					return false, err
				}
				if !p.Fits(v) {
					return false, fmt.Errorf("%s value %s does not fit %s property %s", timeline.ValueKind(v), v, p.Type, p.Name)
				}
				id, ok := ed.Add(p.ID, at, v)
				if ok {
					fmt.Printf("[+] Keyframe %s at %.3fs\n", id, at)
				}
				return ok, nil
			})
		},
	}
	cmd.Flags().StringVarP(&prop, "property", "p", "", "Property as track/name or name")
	cmd.Flags().Float64VarP(&at, "time", "t", 0, "Time in seconds")
	cmd.Flags().StringVar(&value, "value", "", "Value: number, [x, y, z] or text")
	cmd.MarkFlagRequired("property")
	cmd.MarkFlagRequired("value")
	return cmd
}

func keyMoveCmd() *cobra.Command {
	var (
		dx float64
		dt float64
	)
	cmd := &cobra.Command{
		Use:   "move ID",
		Short: "Move a keyframe by seconds or by ruler pixels",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editDocument(func(tl *timeline.Timeline, ed *editor.Editor) (bool, error) {
				scale := controller.TimeScale{PixelsPerSecond: cfg.PixelsPerSec, Zoom: cfg.Zoom}
				if dt != 0 {
					dx = scale.X(dt)
				}
				d := controller.NewKeyframeDragger(ed, scale)
				id := timeline.KeyframeID(args[0])
				if !d.Press(id, controller.Pointer{}) {
					return false, fmt.Errorf("%w: %s", timeline.ErrKeyframeNotFound, id)
				}
				moved := d.Move(controller.Pointer{X: dx})
				d.Release()
				if moved {
					k, _ := tl.Keyframe(id)
					fmt.Printf("[+] Keyframe %s now at %.3fs\n", id, k.Time)
				}
				return moved, nil
			})
		},
	}
	cmd.Flags().Float64Var(&dx, "dx", 0, "Horizontal drag in ruler pixels")
	cmd.Flags().Float64Var(&dt, "by", 0, "Time offset in seconds (overrides --dx)")
	cmd.Flags().Float64Var(&cfg.PixelsPerSec, "pixels-per-second", cfg.PixelsPerSec, "Ruler scale")
	cmd.Flags().Float64Var(&cfg.Zoom, "zoom", cfg.Zoom, "Ruler zoom")
	return cmd
}

func keyDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID...",
		Short: "Delete keyframes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editDocument(func(tl *timeline.Timeline, ed *editor.Editor) (bool, error) {
				for _, a := range args {
					ed.Select(timeline.KeyframeID(a), true)
				}
				n := ed.DeleteSelected()
				fmt.Printf("[*] Deleted %d of %d keyframes\n", n, len(args))
				return n > 0, nil
			})
		},
	}
}

func keyShapeCmd() *cobra.Command {
	var (
		ez, interp    string
		prop          string
		tanIn, tanOut []float64
	)
	cmd := &cobra.Command{
		Use:   "shape [ID...]",
		Short: "Set easing, interpolation or tangents on keyframes (or all keyframes of --property)",
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch editor.Patch
			if ez != "" {
				k, err := easing.ParseKind(ez)
				if err != nil {
					return err
				}
				patch.Easing = &k
			}
			if interp != "" {
				i, err := easing.ParseInterpolation(interp)
				if err != nil {
					return err
				}
				patch.Interpolation = &i
			}
			for _, h := range []struct {
				vals []float64
				dst  **easing.Point
				name string
			}{{tanIn, &patch.TangentIn, "tangent-in"}, {tanOut, &patch.TangentOut, "tangent-out"}} {
				if len(h.vals) == 0 {
					continue
				}
				if len(h.vals) != 2 || h.vals[0] < 0 || h.vals[0] > 1 {
					return fmt.Errorf("--%s wants x,y with x in [0,1]", h.name)
				}
				*h.dst = &easing.Point{X: h.vals[0], Y: h.vals[1]}
			}

			return editDocument(func(tl *timeline.Timeline, ed *editor.Editor) (bool, error) {
				if prop != "" {
					p, _, err := findProperty(tl, prop)
					if err != nil {
						return false, err
					}
					ed.SelectAll(p.ID)
				}
				for _, a := range args {
					ed.Select(timeline.KeyframeID(a), true)
				}
				n := ed.UpdateSelected(patch)
				fmt.Printf("[*] Updated %d keyframes\n", n)
				return n > 0, nil
			})
		},
	}
	cmd.Flags().StringVar(&ez, "easing", "", "linear, ease-in, ease-out, ease-in-out, bounce, elastic")
	cmd.Flags().StringVar(&interp, "interpolation", "", "linear, cubic, step")
	cmd.Flags().StringVarP(&prop, "property", "p", "", "Apply to every keyframe of this property")
	cmd.Flags().Float64SliceVar(&tanIn, "tangent-in", nil, "Incoming handle x,y")
	cmd.Flags().Float64SliceVar(&tanOut, "tangent-out", nil, "Outgoing handle x,y")
	return cmd
}
