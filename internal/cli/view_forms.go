package cli

import (
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/denifrahman/deni-crm/internal/domain"
	"github.com/denifrahman/deni-crm/internal/money"
)

// newProductFormView edits one catalog product. The selling price is
// derived from cost and margin on submission; picking the "qualified"
// status routes the save through the processing endpoint.
func newProductFormView(state *SharedState, p domain.Product) View {
	name := p.Name
	speed := p.Speed
	status := p.Status
	if status == "" {
		status = "pending"
	}

	var duration, hpp, margin string
	if p.Duration > 0 {
		duration = strconv.Itoa(p.Duration)
	}
	if p.HPP > 0 {
		hpp = money.Format(p.HPP)
	}
	if p.Margin > 0 {
		margin = strconv.FormatInt(p.Margin, 10)
	}

	statusOptions := []huh.Option[string]{
		huh.NewOption("Pending", "pending"),
		huh.NewOption("Qualified", "qualified"),
	}
	if status != "pending" && status != "qualified" {
		statusOptions = append(statusOptions, huh.NewOption(status, status))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Placeholder("product name").
				Value(&name).
				Validate(validateRequired("name")),
			huh.NewInput().
				Title("Duration (months)").
				Placeholder("12").
				Value(&duration).
				Validate(validatePositiveInt),
			huh.NewInput().
				Title("Speed").
				Placeholder("50 Mbps").
				Value(&speed),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Cost (HPP)").
				Placeholder("Rp 100.000").
				Value(&hpp),
			huh.NewInput().
				Title("Margin (%)").
				Placeholder("33").
				Value(&margin).
				Validate(validateNonNegativeInt),
			huh.NewSelect[string]().
				Title("Status").
				Options(statusOptions...).
				Value(&status),
		),
	).WithTheme(crmHuhTheme()).WithShowHelp(false)

	title := "New Product"
	if p.ID != 0 {
		title = "Edit Product"
	}

	return newFormView(ViewProductForm, title, form, func() (any, any) {
		out := p
		out.Name = name
		out.Duration = parsePositiveInt(duration, p.Duration)
		out.Speed = speed
		out.HPP = money.Parse(hpp)
		if m, err := strconv.ParseInt(margin, 10, 64); err == nil {
			out.Margin = m
		}
		out.Price = domain.DerivePrice(out.HPP, out.Margin)
		out.Status = status
		return out, nil
	})
}
