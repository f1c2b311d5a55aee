package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/bamboocare/internal/models"
	"github.com/julianstephens/bamboocare/internal/utils"
)

func validateOptionalDate(loc *time.Location) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return nil
		}
		if _, err := utils.ParseDateTimeInLocation(s, loc); err != nil {
			return fmt.Errorf("use YYYY-MM-DD or YYYY-MM-DD HH:MM")
		}
		return nil
	}
}

// NewPlantForm creates the form for adding a plant
func NewPlantForm(fm *PlantFormModel, species []models.Species, loc *time.Location) *huh.Form {
	speciesOpts := []huh.Option[string]{huh.NewOption("Unknown", "")}
	for _, sp := range species {
		speciesOpts = append(speciesOpts, huh.NewOption(fmt.Sprintf("%s (every %d days)", sp.CommonName, sp.BaseWateringFrequencyDays), sp.ID))
	}

	locationOpts := make([]huh.Option[models.PlantLocation], 0, len(models.AllLocations))
	for _, l := range models.AllLocations {
		locationOpts = append(locationOpts, huh.NewOption(string(l), l))
	}
	lightOpts := make([]huh.Option[models.LightLevel], 0, len(models.AllLightLevels))
	for _, l := range models.AllLightLevels {
		lightOpts = append(lightOpts, huh.NewOption(l.Label(), l))
	}
	containerOpts := make([]huh.Option[models.ContainerType], 0, len(models.AllContainers))
	for _, c := range models.AllContainers {
		containerOpts = append(containerOpts, huh.NewOption(c.Label(), c))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&fm.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("plant name cannot be empty")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Species").
				Options(speciesOpts...).
				Value(&fm.SpeciesID),
			huh.NewSelect[models.PlantLocation]().
				Title("Location").
				Options(locationOpts...).
				Value(&fm.Location),
			huh.NewSelect[models.LightLevel]().
				Title("Light").
				Options(lightOpts...).
				Value(&fm.Light),
			huh.NewSelect[models.ContainerType]().
				Title("Container").
				Options(containerOpts...).
				Value(&fm.Container),
			huh.NewInput().
				Title("Last watered").
				Description("Leave empty if unknown").
				Value(&fm.Watered).
				Validate(validateOptionalDate(loc)),
			huh.NewInput().
				Title("Notes").
				Value(&fm.Notes),
		),
	).WithTheme(huh.ThemeDracula())
}

// NewCareForm creates the form for logging a care event
func NewCareForm(fm *CareFormModel, plantName string, loc *time.Location) *huh.Form {
	typeOpts := make([]huh.Option[models.CareType], 0, len(models.AllCareTypes))
	for _, t := range models.AllCareTypes {
		typeOpts = append(typeOpts, huh.NewOption(string(t), t))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[models.CareType]().
				Title("Care for " + plantName).
				Options(typeOpts...).
				Value(&fm.Type),
			huh.NewInput().
				Title("When").
				Description("Leave empty for now").
				Value(&fm.Date).
				Validate(validateOptionalDate(loc)),
			huh.NewInput().
				Title("Notes").
				Value(&fm.Notes),
		),
	).WithTheme(huh.ThemeDracula())
}
