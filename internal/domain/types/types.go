// Package types contains common types used across the application
package types

// MedalRow is one row of an aggregate medal table. Season and Year are empty
// for the coarser groupings.
type MedalRow struct {
	NOC         string `json:"noc"`
	Season      string `json:"season,omitempty"`
	Year        int    `json:"year,omitempty"`
	TotalGold   int    `json:"total_gold"`
	TotalSilver int    `json:"total_silver"`
	TotalBronze int    `json:"total_bronze"`
	TotalMedals int    `json:"total_medals"`
}

// AgeRow is one athlete participation with a known age.
type AgeRow struct {
	Name   string `json:"name"`
	Sex    string `json:"sex"`
	Age    int    `json:"age"`
	Season string `json:"season"`
	Year   int    `json:"year"`
}

// Choice is one selectable value of a dashboard control.
type Choice struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Options lists the values offered by the dashboard controls.
type Options struct {
	Seasons  []Choice `json:"seasons"`
	Genders  []Choice `json:"genders"`
	Years    []Choice `json:"years"`
	Medals   []Choice `json:"medals"`
	Defaults Defaults `json:"defaults"`
}

// Defaults are the initial control values.
type Defaults struct {
	Season    string   `json:"season"`
	Gender    string   `json:"gender"`
	Year      string   `json:"year"`
	Threshold int      `json:"threshold"`
	Medals    []string `json:"medals"`
}
