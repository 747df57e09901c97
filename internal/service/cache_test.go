package service

import (
	"testing"
	"time"

	"github.com/bigkaa/golibrary/internal/domain/model"
)

// TestEntityCache_GetSet проверяет базовые операции Get/Set.
func TestEntityCache_GetSet(t *testing.T) {
	cache := NewEntityCache[*model.Book]("books", 100, 5*time.Minute)

	book := &model.Book{
		ID:     1,
		Title:  "Дюна",
		Author: "Фрэнк Герберт",
	}

	// Cache miss
	_, ok := cache.Get(1)
	if ok {
		t.Fatal("ожидался cache miss для нового ключа")
	}

	// Set + cache hit
	cache.Set(1, book)
	got, ok := cache.Get(1)
	if !ok {
		t.Fatal("ожидался cache hit после Set")
	}
	if got.Title != "Дюна" {
		t.Errorf("Title = %q, ожидался %q", got.Title, "Дюна")
	}
	if got.Author != "Фрэнк Герберт" {
		t.Errorf("Author = %q, ожидался %q", got.Author, "Фрэнк Герберт")
	}
}

// TestEntityCache_Delete проверяет удаление из кэша (инвалидация).
func TestEntityCache_Delete(t *testing.T) {
	cache := NewEntityCache[*model.Book]("books", 100, 5*time.Minute)

	cache.Set(7, &model.Book{ID: 7, Title: "Солярис"})

	// Проверяем что запись есть
	_, ok := cache.Get(7)
	if !ok {
		t.Fatal("ожидался cache hit перед удалением")
	}

	// Удаляем
	cache.Delete(7)

	// Проверяем что записи больше нет
	_, ok = cache.Get(7)
	if ok {
		t.Fatal("ожидался cache miss после Delete")
	}
}

// TestEntityCache_TTLExpiration проверяет автоматическое истечение TTL.
func TestEntityCache_TTLExpiration(t *testing.T) {
	// Короткий TTL = 50ms для теста
	cache := NewEntityCache[*model.Book]("books", 100, 50*time.Millisecond)

	cache.Set(1, &model.Book{ID: 1, Title: "Гиперион"})

	// Сразу после Set — должен быть hit
	_, ok := cache.Get(1)
	if !ok {
		t.Fatal("ожидался cache hit сразу после Set")
	}

	// Ждём истечения TTL
	time.Sleep(100 * time.Millisecond)

	// После истечения TTL — должен быть miss
	_, ok = cache.Get(1)
	if ok {
		t.Fatal("ожидался cache miss после истечения TTL")
	}
}

// TestEntityCache_Eviction проверяет вытеснение при превышении maxSize.
func TestEntityCache_Eviction(t *testing.T) {
	// Кэш на 2 записи
	cache := NewEntityCache[*model.Book]("books", 2, 5*time.Minute)

	cache.Set(1, &model.Book{ID: 1})
	cache.Set(2, &model.Book{ID: 2})

	// Обе записи в кэше
	if _, ok := cache.Get(1); !ok {
		t.Fatal("ожидался cache hit для книги 1")
	}
	if _, ok := cache.Get(2); !ok {
		t.Fatal("ожидался cache hit для книги 2")
	}

	// Добавляем третью — первая должна быть вытеснена (LRU)
	cache.Set(3, &model.Book{ID: 3})

	if _, ok := cache.Get(3); !ok {
		t.Fatal("ожидался cache hit для книги 3")
	}
}

// TestEntityCache_List проверяет кэширование списка сущностей.
func TestEntityCache_List(t *testing.T) {
	cache := NewEntityCache[*model.Patron]("patrons", 100, 5*time.Minute)

	// Список не закэширован
	_, ok := cache.GetList()
	if ok {
		t.Fatal("ожидался cache miss для незаполненного списка")
	}

	patrons := []*model.Patron{
		{ID: 1, Name: "Анна"},
		{ID: 2, Name: "Борис"},
	}
	cache.SetList(patrons)

	got, ok := cache.GetList()
	if !ok {
		t.Fatal("ожидался cache hit после SetList")
	}
	if len(got) != 2 {
		t.Fatalf("длина списка = %d, ожидается 2", len(got))
	}
	if got[0].Name != "Анна" {
		t.Errorf("Name = %q, ожидался %q", got[0].Name, "Анна")
	}

	// Инвалидация списка
	cache.InvalidateList()
	_, ok = cache.GetList()
	if ok {
		t.Fatal("ожидался cache miss после InvalidateList")
	}
}
