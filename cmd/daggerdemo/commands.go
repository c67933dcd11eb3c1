// Copyright (c) 2024 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package main

import (
	"fmt"
	"io"

	"github.com/gta/dagger/examples/app"
	"github.com/gta/dagger/examples/coffee"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newCoffeeCommand(v *viper.Viper, out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coffee",
		Short: "Order from the coffee shop",
		RunE: func(*cobra.Command, []string) error {
			cfg, err := readConfig(v)
			if err != nil {
				return err
			}
			opts, z, err := registryOptions(cfg, out)
			if err != nil {
				return err
			}
			defer z.Sync() //nolint:errcheck

			shop, h, err := coffee.Open(opts...)
			if err != nil {
				return err
			}
			if err := validate(cfg, h.Registry(), out); err != nil {
				return err
			}

			first := shop.Coffee()
			for i := 0; i < cfg.Orders; i++ {
				latte := shop.Latte()
				fmt.Fprintf(out, "latte #%d: %s\n", i+1, latte.Make())
			}
			fmt.Fprintf(out, "beans shared: %t\n", first.Bean == shop.Coffee().Bean)

			sugar, err := shop.Sugar()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "sugar: %s\n", sugar.Describe())
			return nil
		},
	}
	cmd.Flags().Int("orders", 1, "number of lattes to order")
	return cmd
}

func newUsersCommand(v *viper.Viper, out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Run an activity against the application graph",
		RunE: func(*cobra.Command, []string) error {
			cfg, err := readConfig(v)
			if err != nil {
				return err
			}
			opts, z, err := registryOptions(cfg, out)
			if err != nil {
				return err
			}
			defer z.Sync() //nolint:errcheck

			c, h, err := app.New(z, opts...)
			if err != nil {
				return err
			}
			if err := validate(cfg, h.Registry(), out); err != nil {
				return err
			}

			report, err := app.NewActivity(cfg.Activity).OnCreate(c)
			if err != nil {
				return err
			}
			fmt.Fprint(out, report)
			return nil
		},
	}
	cmd.Flags().String("activity", "InjectDemoActivity", "name of the activity")
	return cmd
}
