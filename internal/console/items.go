package console

import (
	"context"
	"fmt"
	"strconv"

	"github.com/erazemk/shramba/internal/model"
	"github.com/erazemk/shramba/internal/store"
)

func (s *Shell) addItem(ctx context.Context) error {
	name, err := ask(s, "Enter item name: ", model.ParseName)
	if err != nil {
		return err
	}

	quantity, err := ask(s, "Enter quantity: ", model.ParseQuantity)
	if err != nil {
		return err
	}

	price, err := ask(s, "Enter price ("+model.DefaultCurrency+"): ", model.ParsePrice)
	if err != nil {
		return err
	}

	today := model.DateOf(s.now())
	expiry, err := ask(s, "Enter expiry date (YYYY-MM-DD): ", func(raw string) (model.Date, error) {
		return model.ParseExpiryOnAdd(raw, today)
	})
	if err != nil {
		return err
	}

	res, err := store.AddItem(ctx, s.db, model.NewItem{
		Name:       name,
		Quantity:   quantity,
		Price:      price,
		ExpiryDate: &expiry,
	})
	if err != nil {
		return err
	}

	s.log.Info("item added", "id", res.ID, "name", name)
	fmt.Fprintf(s.out, "%d record(s) inserted. %s\n", res.RowsAffected, returnHint)
	return nil
}

func (s *Shell) removeItem(ctx context.Context) error {
	id, err := ask(s, "Enter item id to remove (use View Items to see all id's): ", model.ParseID)
	if err != nil {
		return err
	}

	n, err := store.RemoveItem(ctx, s.db, id)
	if err != nil {
		return err
	}

	s.log.Info("item removed", "id", id, "rows", n)
	fmt.Fprintf(s.out, "%d record(s) deleted. %s\n", n, returnHint)
	return nil
}

func (s *Shell) viewItems(ctx context.Context) error {
	items, err := store.ListItems(ctx, s.db)
	if err != nil {
		return err
	}

	s.printItems(items)
	fmt.Fprintln(s.out, returnHint)
	return nil
}

func (s *Shell) updateItems(ctx context.Context) error {
	column, err := ask(s, "Which property of the item do you want to change? (Enter column name): ", model.ParseColumn)
	if err != nil {
		return err
	}

	today := model.DateOf(s.now())
	value, err := ask(s, "Enter the change you want to make: ", func(raw string) (any, error) {
		return column.ParseValue(raw, today)
	})
	if err != nil {
		return err
	}

	id, err := ask(s, "Enter the id of the item you want to change: ", model.ParseID)
	if err != nil {
		return err
	}

	n, err := store.UpdateItem(ctx, s.db, column, value, id)
	if err != nil {
		return err
	}

	s.log.Info("item updated", "id", id, "column", column, "rows", n)
	fmt.Fprintf(s.out, "%d record(s) updated. %s\n", n, returnHint)
	return nil
}

func (s *Shell) searchItems(ctx context.Context) error {
	name, err := s.readLine("Enter the exact item name to search: ")
	if err != nil {
		return err
	}

	items, err := store.SearchItems(ctx, s.db, name)
	if err != nil {
		return err
	}

	if len(items) == 0 {
		fmt.Fprintln(s.out, "Item not found. "+returnHint)
		return nil
	}

	s.printItems(items)
	fmt.Fprintln(s.out, returnHint)
	return nil
}

func (s *Shell) printItems(items []model.Item) {
	fmt.Fprintln(s.out, "Search result(s):")
	for _, item := range items {
		expiry := "None"
		if item.ExpiryDate != nil {
			expiry = item.ExpiryDate.String()
		}

		fmt.Fprintln(s.out, "ID:", item.ID)
		fmt.Fprintln(s.out, "Name:", item.Name)
		fmt.Fprintln(s.out, "Quantity:", strconv.FormatFloat(item.Quantity, 'f', -1, 64))
		fmt.Fprintln(s.out, "Price:", item.Price.StringFixed(2))
		fmt.Fprintln(s.out, "Currency:", item.Currency)
		fmt.Fprintln(s.out, "Expiry Date:", expiry)
		fmt.Fprintln(s.out)
	}
}
