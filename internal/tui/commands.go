package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/EinAeffchen/smoltui/internal/domain"
	"github.com/EinAeffchen/smoltui/internal/history"
	"github.com/EinAeffchen/smoltui/internal/service"
)

// Command factories for async operations. Store-backed loads block inside
// the command and return a bare PageLoadedMsg; the store is the source of
// truth and the model re-snapshots it when the message lands. Duplicate
// triggers are safe because Initialize and Advance are no-ops while a
// fetch for the same list key is in flight.

const requestTimeout = 30 * time.Second

// LoadMediaCmd requests the first page for a media filter
func LoadMediaCmd(svc *service.LibraryService, filter domain.MediaFilter, view View) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		svc.LoadMedia(ctx, filter)
		return PageLoadedMsg{View: view}
	}
}

// LoadMoreMediaCmd requests the next page for a media filter
func LoadMoreMediaCmd(svc *service.LibraryService, filter domain.MediaFilter, view View) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		svc.LoadMoreMedia(ctx, filter)
		return PageLoadedMsg{View: view}
	}
}

// LoadPeopleCmd requests the first page of person clusters
func LoadPeopleCmd(svc *service.PeopleService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		svc.LoadPeople(ctx)
		return PageLoadedMsg{View: ViewPeople}
	}
}

// LoadMorePeopleCmd requests the next page of person clusters
func LoadMorePeopleCmd(svc *service.PeopleService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		svc.LoadMorePeople(ctx)
		return PageLoadedMsg{View: ViewPeople}
	}
}

// LoadPersonFacesCmd requests the first page of a person's faces
func LoadPersonFacesCmd(svc *service.PeopleService, personID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		svc.LoadPersonFaces(ctx, personID)
		return PageLoadedMsg{View: ViewPersonDetail}
	}
}

// LoadMorePersonFacesCmd requests the next page of a person's faces
func LoadMorePersonFacesCmd(svc *service.PeopleService, personID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		svc.LoadMorePersonFaces(ctx, personID)
		return PageLoadedMsg{View: ViewPersonDetail}
	}
}

// LoadOrphanFacesCmd requests the first page of unassigned faces
func LoadOrphanFacesCmd(svc *service.PeopleService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		svc.LoadOrphanFaces(ctx)
		return PageLoadedMsg{View: ViewOrphanFaces}
	}
}

// LoadMoreOrphanFacesCmd requests the next page of unassigned faces
func LoadMoreOrphanFacesCmd(svc *service.PeopleService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		svc.LoadMoreOrphanFaces(ctx)
		return PageLoadedMsg{View: ViewOrphanFaces}
	}
}

// LoadDuplicatesCmd requests the first page of the duplicate queue
func LoadDuplicatesCmd(svc *service.DuplicateService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		svc.LoadGroups(ctx)
		return PageLoadedMsg{View: ViewDuplicates}
	}
}

// LoadMoreDuplicatesCmd requests the next page of the duplicate queue
func LoadMoreDuplicatesCmd(svc *service.DuplicateService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		svc.LoadMoreGroups(ctx)
		return PageLoadedMsg{View: ViewDuplicates}
	}
}

// SearchPageCmd fetches one search result page. The caller obtains gen,
// query, and cursor from SearchService.Begin on the UI goroutine; the
// command closes over those values only, so the fetch goroutine never
// reads mutable service state, and the page travels back with the
// generation token so a query change in between drops it.
func SearchPageCmd(svc *service.SearchService, gen uint64, query, cursor string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		page, err := svc.FetchPage(ctx, query, cursor)
		return SearchPageMsg{Gen: gen, Page: page, Err: err}
	}
}

// DeleteMediaCmd deletes an item and prunes it from the filter's listing
func DeleteMediaCmd(svc *service.LibraryService, searchSvc *service.SearchService, filter domain.MediaFilter, mediaID string, view View) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := svc.DeleteMedia(ctx, filter, mediaID); err != nil {
			return ErrMsg{Err: err, Context: "deleting media"}
		}
		// A deleted item also leaves the current search results
		searchSvc.RemoveResult(mediaID)
		return ActionDoneMsg{Info: "deleted", View: view}
	}
}

// ToggleFavoriteCmd flips the favorite flag on an item
func ToggleFavoriteCmd(svc *service.LibraryService, filter domain.MediaFilter, mediaID string, favorite bool, view View) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := svc.SetFavorite(ctx, filter, mediaID, favorite); err != nil {
			return ErrMsg{Err: err, Context: "updating favorite"}
		}
		info := "unfavorited"
		if favorite {
			info = "favorited"
		}
		return ActionDoneMsg{Info: info, View: view}
	}
}

// AssignFaceCmd assigns a face to a person and prunes it from the listing
// it was reviewed in
func AssignFaceCmd(svc *service.PeopleService, listKey, faceID, personID string, view View) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := svc.AssignFace(ctx, listKey, faceID, personID); err != nil {
			return ErrMsg{Err: err, Context: "assigning face"}
		}
		return ActionDoneMsg{Info: "face assigned", View: view}
	}
}

// DetachFaceCmd removes a face from its person
func DetachFaceCmd(svc *service.PeopleService, personID, faceID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := svc.DetachFace(ctx, personID, faceID); err != nil {
			return ErrMsg{Err: err, Context: "detaching face"}
		}
		return ActionDoneMsg{Info: "face detached", View: ViewPersonDetail}
	}
}

// MergePeopleCmd merges the source cluster into dest
func MergePeopleCmd(svc *service.PeopleService, sourceID, destID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := svc.MergePeople(ctx, sourceID, destID); err != nil {
			return ErrMsg{Err: err, Context: "merging people"}
		}
		return ActionDoneMsg{Info: "merged", View: ViewPeople}
	}
}

// RenamePersonCmd names a person cluster
func RenamePersonCmd(svc *service.PeopleService, personID, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := svc.RenamePerson(ctx, personID, name); err != nil {
			return ErrMsg{Err: err, Context: "renaming person"}
		}
		return ActionDoneMsg{Info: "renamed to " + name, View: ViewPeople}
	}
}

// ResolveGroupCmd applies a resolution to one duplicate group
func ResolveGroupCmd(svc *service.DuplicateService, groupID string, resolution domain.DuplicateResolution) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := svc.Resolve(ctx, groupID, resolution); err != nil {
			return ErrMsg{Err: err, Context: "resolving duplicates"}
		}
		return ActionDoneMsg{Info: "group resolved", View: ViewDuplicates}
	}
}

// HealthCheckCmd probes the server once at startup
func HealthCheckCmd(client domain.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return HealthMsg{Err: client.CheckHealth(ctx)}
	}
}

// SaveSearchCmd records a submitted query in the history store
func SaveSearchCmd(hist *history.Store, query string) tea.Cmd {
	return func() tea.Msg {
		if err := hist.AddSearch(query); err != nil {
			return ErrMsg{Err: err, Context: "saving search history"}
		}
		return nil
	}
}

// LoadRecentSearchesCmd fetches persisted queries for the search prompt
func LoadRecentSearchesCmd(hist *history.Store) tea.Cmd {
	return func() tea.Msg {
		queries, err := hist.RecentSearches()
		if err != nil {
			return ErrMsg{Err: err, Context: "loading search history"}
		}
		return RecentSearchesMsg{Queries: queries}
	}
}

// SaveLastViewCmd persists the active view for the next session
func SaveLastViewCmd(hist *history.Store, view View) tea.Cmd {
	return func() tea.Msg {
		if err := hist.SetLastView(view.String()); err != nil {
			return ErrMsg{Err: err, Context: "saving view state"}
		}
		return nil
	}
}

func spinnerTick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}
