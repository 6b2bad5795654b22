package cli

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/riskcheck/console/internal/client/models"
	"github.com/riskcheck/console/internal/client/services"
	"github.com/riskcheck/console/internal/common"
	"github.com/riskcheck/console/internal/pagination"
)

var errUsage = errors.New("missing argument")

func (a *App) Keys(ctx context.Context) error {
	list, err := a.apiKeyService.List(ctx)
	if err != nil {
		return a.fail(ctx, "list api keys", err)
	}
	if len(list.Keys) == 0 {
		a.println("No API keys yet. Create one with 'newkey'.")
		return nil
	}

	rows := make([][]string, 0, len(list.Keys))
	for _, k := range list.Keys {
		status := "active"
		if !k.IsActive || k.RevokedAt != nil {
			status = "revoked"
		}
		rows = append(rows, []string{
			k.ID,
			k.Name,
			orDash(models.MaskKey(k.KeyPreview)),
			status,
			strconv.Itoa(k.UsageCount),
			formatTimePtr(k.LastUsedAt),
			formatTime(k.CreatedAt),
		})
	}
	writeTable(a.out, []string{"ID", "NAME", "KEY", "STATUS", "USES", "LAST USED", "CREATED"}, rows)
	return nil
}

// NewKey creates a key and shows it once; the backend never returns it again.
func (a *App) NewKey(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Key name", a.out)
	if err != nil {
		return err
	}
	desc, err := getSimpleText(a.reader, "Description (optional)", a.out)
	if err != nil {
		return err
	}

	k, err := a.apiKeyService.Create(ctx, name, desc)
	if err != nil {
		return a.fail(ctx, "create api key", err)
	}
	a.printf("Created %q. Copy the key now, it will not be shown again:\n  %s\n", k.Name, k.Key)
	return nil
}

func (a *App) RevokeKey(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.println("Usage: revoke <id>")
		return errUsage
	}
	ok, err := confirm(a.reader, "Revoke key "+args[0]+"? Apps using it will stop working", a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.apiKeyService.Revoke(ctx, args[0]); err != nil {
		return a.fail(ctx, "revoke api key", err)
	}
	a.println("Key revoked")
	return nil
}

// Lists shows one page of custom list entries.
// Usage: lists [allowlist|blocklist] [page]
func (a *App) Lists(ctx context.Context, args []string) error {
	var category models.Category
	if len(args) > 0 {
		if c, err := models.ParseCategory(args[0]); err == nil {
			category = c
			args = args[1:]
		}
	}
	page, err := pageArg(args, 0)
	if err != nil {
		return a.fail(ctx, "custom list", err)
	}

	res, err := a.customListService.Get(ctx, services.CustomListQuery{
		Category: category,
		Limit:    PageSize,
		Offset:   (page - 1) * PageSize,
	})
	if err != nil {
		return a.fail(ctx, "custom list", err)
	}
	if len(res.Entries) == 0 {
		a.println("The list is empty. Add entries with 'addentry'.")
		return nil
	}

	rows := make([][]string, 0, len(res.Entries))
	for _, e := range res.Entries {
		rows = append(rows, []string{string(e.Category), orDash(e.Type), e.Value, formatTime(e.CreatedAt)})
	}
	writeTable(a.out, []string{"CATEGORY", "TYPE", "VALUE", "ADDED"}, rows)

	if p := pager(pagination.New(page, PageSize, res.Count)); p != "" {
		a.println(p)
	}
	return nil
}

func (a *App) AddListEntry(ctx context.Context) error {
	raw, err := getTextOrDefault(a.reader, "Category (allowlist/blocklist)", string(models.Blocklist), a.out)
	if err != nil {
		return err
	}
	category, err := models.ParseCategory(strings.ToLower(raw))
	if err != nil {
		return a.fail(ctx, "add entry", common.ErrInvalidCategory)
	}
	value, err := getSimpleText(a.reader, "Value (email, IP, domain ...)", a.out)
	if err != nil {
		return err
	}

	e, err := a.customListService.Create(ctx, value, category)
	if err != nil {
		return a.fail(ctx, "add entry", err)
	}
	a.printf("Added %s to the %s\n", e.Value, e.Category)
	return nil
}

func (a *App) Plans(ctx context.Context) error {
	plans, err := a.subscriptionService.Plans(ctx)
	if err != nil {
		return a.fail(ctx, "plans", err)
	}
	current := ""
	if u := a.currentUser(); u != nil && u.Subscription != nil {
		current = u.Subscription.Plan.Name
	}

	rows := make([][]string, 0, len(plans))
	for _, p := range plans {
		mark := ""
		switch {
		case p.Name == current:
			mark = "current"
		case !p.Purchasable():
			mark = "n/a"
		}
		rows = append(rows, []string{p.Name, "$" + p.MonthlyPrice + "/" + orDash(p.BillingPeriod), strconv.Itoa(p.ChecksLimit), p.Description.Short, mark})
	}
	writeTable(a.out, []string{"PLAN", "PRICE", "CHECKS", "DESCRIPTION", ""}, rows)
	return nil
}

// Checkout starts a hosted checkout and prints the payment link.
func (a *App) Checkout(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.println("Usage: checkout <plan>")
		return errUsage
	}
	name := strings.Join(args, " ")

	plans, err := a.subscriptionService.Plans(ctx)
	if err != nil {
		return a.fail(ctx, "checkout", err)
	}
	var plan *models.SubscriptionPlan
	for i := range plans {
		if strings.EqualFold(plans[i].Name, name) {
			plan = &plans[i]
			break
		}
	}
	if plan == nil {
		a.printf("Unknown plan %q\n", name)
		return errUsage
	}
	if !plan.Purchasable() {
		a.printf("Plan %s cannot be purchased\n", plan.Name)
		return errUsage
	}

	co, err := a.subscriptionService.CreateCheckout(ctx, plan.Name, *plan.VariantID)
	if err != nil {
		return a.fail(ctx, "checkout", err)
	}
	a.println("Complete the payment in your browser:")
	a.println("  " + co.URL)
	return nil
}

func (a *App) Profile(ctx context.Context) error {
	u := a.currentUser()
	if u == nil {
		return nil
	}
	name, err := getTextOrDefault(a.reader, "Name", u.Name, a.out)
	if err != nil {
		return err
	}
	email, err := getTextOrDefault(a.reader, "Email", u.Email, a.out)
	if err != nil {
		return err
	}

	updated, err := a.userService.UpdateProfile(ctx, name, email)
	if err != nil {
		return a.fail(ctx, "update profile", err)
	}
	next := *u
	next.Name, next.Email = updated.Name, updated.Email
	a.setUser(&next)
	a.println("Profile updated")
	return nil
}

func (a *App) DeleteAccount(ctx context.Context) error {
	ok, err := confirm(a.reader, "Delete your account and all its data? This cannot be undone", a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.userService.DeleteAccount(ctx); err != nil {
		return a.fail(ctx, "delete account", err)
	}
	a.setUser(nil)
	a.println("Account deleted")
	return nil
}
