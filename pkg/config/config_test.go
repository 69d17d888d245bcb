package config

import (
	"path/filepath"
	"testing"
)

func resetGlobal(t *testing.T) {
	t.Helper()
	globalMu.Lock()
	globalManager = nil
	globalMu.Unlock()
	t.Cleanup(func() {
		globalMu.Lock()
		globalManager = nil
		globalMu.Unlock()
	})
}

func TestLoad_RegistersDefaultSections(t *testing.T) {
	manager, err := Load(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	sections := manager.GetSections()
	if len(sections) != 2 {
		t.Fatalf("Expected 2 sections, got %d", len(sections))
	}
	if sections[0].ID() != SectionIDLLM || sections[1].ID() != SectionIDBrowser {
		t.Errorf("Unexpected section order: %s, %s", sections[0].ID(), sections[1].ID())
	}
	if BrowserOf(manager).GetNewTabURL() != DefaultNewTabURL {
		t.Error("Browser section should start with defaults")
	}
}

func TestInitialize(t *testing.T) {
	resetGlobal(t)

	if IsInitialized() {
		t.Fatal("Should not be initialized before Initialize")
	}
	if GetLLM() != nil || GetBrowser() != nil {
		t.Error("Section accessors should return nil before Initialize")
	}

	if err := Initialize(filepath.Join(t.TempDir(), "config.json")); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if !IsInitialized() {
		t.Fatal("Should be initialized")
	}
	if GetLLM() == nil || GetBrowser() == nil {
		t.Error("Section accessors should return sections after Initialize")
	}
}

func TestGlobal_PanicsWhenUninitialized(t *testing.T) {
	resetGlobal(t)

	defer func() {
		if recover() == nil {
			t.Error("Global should panic before Initialize")
		}
	}()
	Global()
}

func TestSectionAccessors_WrongRegistration(t *testing.T) {
	manager := NewManager(newMockStore())
	manager.RegisterSection(&mockSection{id: SectionIDLLM})

	if LLMOf(manager) != nil {
		t.Error("LLMOf should return nil for a foreign section type")
	}
	if BrowserOf(manager) != nil {
		t.Error("BrowserOf should return nil when unregistered")
	}
}
