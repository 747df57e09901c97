package service

import (
	"context"
	"errors"
	"testing"

	"github.com/bigkaa/golibrary/internal/domain/model"
)

func TestBookService_Add(t *testing.T) {
	svc := newTestBookService(newFakeBookRepo())

	book := testBook()
	// Клиентский id и флаг доступности игнорируются
	book.ID = 999
	book.Available = false

	created, err := svc.Add(context.Background(), book)
	if err != nil {
		t.Fatalf("Add() вернул ошибку: %v", err)
	}

	if created.ID != 1 {
		t.Errorf("ID = %d, ожидается 1 (назначает БД, клиентский id отбрасывается)", created.ID)
	}
	if !created.Available {
		t.Error("Available = false, новая книга должна быть доступна")
	}
	if created.Title != "Дюна" {
		t.Errorf("Title = %q, ожидается %q", created.Title, "Дюна")
	}
}

func TestBookService_Add_Validation(t *testing.T) {
	svc := newTestBookService(newFakeBookRepo())

	tests := []struct {
		name   string
		modify func(*model.Book)
	}{
		{"пустое название", func(b *model.Book) { b.Title = "" }},
		{"нулевой год издания", func(b *model.Book) { b.PublicationYear = 0 }},
		{"отрицательный год издания", func(b *model.Book) { b.PublicationYear = -5 }},
		{"нулевое количество страниц", func(b *model.Book) { b.Pages = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			book := testBook()
			tt.modify(book)

			_, err := svc.Add(context.Background(), book)
			if !errors.Is(err, ErrValidation) {
				t.Errorf("Add() = %v, ожидается ErrValidation", err)
			}
		})
	}
}

func TestBookService_Get(t *testing.T) {
	repo := newFakeBookRepo()
	svc := newTestBookService(repo)

	created, err := svc.Add(context.Background(), testBook())
	if err != nil {
		t.Fatalf("Add() вернул ошибку: %v", err)
	}

	got, err := svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Get() вернул ошибку: %v", err)
	}
	if got.Title != created.Title {
		t.Errorf("Title = %q, ожидается %q", got.Title, created.Title)
	}
}

func TestBookService_Get_InvalidID(t *testing.T) {
	repo := newFakeBookRepo()
	svc := newTestBookService(repo)

	// Неположительный id отклоняется до обращения к хранилищу
	for _, id := range []int64{0, -1} {
		_, err := svc.Get(context.Background(), id)
		if !errors.Is(err, ErrValidation) {
			t.Errorf("Get(%d) = %v, ожидается ErrValidation", id, err)
		}
	}
}

func TestBookService_Get_NotFound(t *testing.T) {
	svc := newTestBookService(newFakeBookRepo())

	_, err := svc.Get(context.Background(), 42)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(42) = %v, ожидается ErrNotFound", err)
	}
}

func TestBookService_List_Empty(t *testing.T) {
	svc := newTestBookService(newFakeBookRepo())

	// Пустой каталог считается отсутствием данных
	_, err := svc.List(context.Background())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("List() = %v, ожидается ErrNotFound", err)
	}
}

func TestBookService_List(t *testing.T) {
	svc := newTestBookService(newFakeBookRepo())

	ctx := context.Background()
	if _, err := svc.Add(ctx, testBook()); err != nil {
		t.Fatalf("Add() вернул ошибку: %v", err)
	}
	second := testBook()
	second.Title = "Мессия Дюны"
	if _, err := svc.Add(ctx, second); err != nil {
		t.Fatalf("Add() вернул ошибку: %v", err)
	}

	books, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List() вернул ошибку: %v", err)
	}
	if len(books) != 2 {
		t.Fatalf("len(List()) = %d, ожидается 2", len(books))
	}
	if books[0].ID != 1 || books[1].ID != 2 {
		t.Errorf("порядок списка = [%d %d], ожидается [1 2]", books[0].ID, books[1].ID)
	}
}

func TestBookService_Update(t *testing.T) {
	repo := newFakeBookRepo()
	svc := newTestBookService(repo)

	ctx := context.Background()
	created, err := svc.Add(ctx, testBook())
	if err != nil {
		t.Fatalf("Add() вернул ошибку: %v", err)
	}

	upd := testBook()
	upd.Title = "Дети Дюны"
	upd.Pages = 608
	upd.Available = false

	updated, err := svc.Update(ctx, created.ID, upd)
	if err != nil {
		t.Fatalf("Update() вернул ошибку: %v", err)
	}

	if updated.Title != "Дети Дюны" {
		t.Errorf("Title = %q, ожидается %q", updated.Title, "Дети Дюны")
	}
	if updated.Pages != 608 {
		t.Errorf("Pages = %d, ожидается 608", updated.Pages)
	}
	// Update перезаписывает и флаг доступности
	if updated.Available {
		t.Error("Available = true, ожидается false после обновления")
	}

	// Кэш обновлён: Get возвращает новое состояние
	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get() вернул ошибку: %v", err)
	}
	if got.Title != "Дети Дюны" {
		t.Errorf("Get().Title = %q, ожидается %q", got.Title, "Дети Дюны")
	}
}

func TestBookService_Update_NotFound(t *testing.T) {
	svc := newTestBookService(newFakeBookRepo())

	_, err := svc.Update(context.Background(), 42, testBook())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Update(42) = %v, ожидается ErrNotFound", err)
	}
}

func TestBookService_Delete(t *testing.T) {
	svc := newTestBookService(newFakeBookRepo())

	ctx := context.Background()
	created, err := svc.Add(ctx, testBook())
	if err != nil {
		t.Fatalf("Add() вернул ошибку: %v", err)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete() вернул ошибку: %v", err)
	}

	// После удаления книга не находится (в том числе мимо кэша)
	_, err = svc.Get(ctx, created.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() после Delete = %v, ожидается ErrNotFound", err)
	}
}

func TestBookService_Delete_NotFound(t *testing.T) {
	svc := newTestBookService(newFakeBookRepo())

	err := svc.Delete(context.Background(), 42)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete(42) = %v, ожидается ErrNotFound", err)
	}
}
