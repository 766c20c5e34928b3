package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/movie_go_server/internal/model/dto"
	"github.com/qs3c/movie_go_server/internal/testutil"
)

func TestMovieRepository_GetBySlug(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMovieRepository(db)

	created := testutil.TestMovie(t, db)

	found, err := repo.GetBySlug(created.Slug)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}

func TestMovieRepository_List_GenreFilter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMovieRepository(db)

	testutil.TestMovie(t, db, testutil.WithGenres("Action", "Sci-Fi"))
	testutil.TestMovie(t, db, testutil.WithGenres("Drama"))
	testutil.TestMovie(t, db, testutil.WithGenres("Action"))

	movies, total, err := repo.List(&dto.MovieListRequest{Page: 1, PageSize: 20, Genre: "Action"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, m := range movies {
		assert.True(t, m.HasGenre("Action"))
	}
}

func TestMovieRepository_List_GenreFilter_NoPartialMatch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMovieRepository(db)

	// "Drama" 不应匹配到 "Dram" 之类的子串查询
	testutil.TestMovie(t, db, testutil.WithGenres("Drama"))

	_, total, err := repo.List(&dto.MovieListRequest{Page: 1, PageSize: 20, Genre: "Dram"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestMovieRepository_List_ExcludesNotShowing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMovieRepository(db)

	testutil.TestMovie(t, db)
	testutil.TestMovie(t, db, testutil.WithMovieStatus("coming_soon"))
	testutil.TestMovie(t, db, testutil.WithMovieStatus("archived"))

	_, total, err := repo.List(&dto.MovieListRequest{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestMovieRepository_List_SortByRating(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMovieRepository(db)

	testutil.TestMovie(t, db, testutil.WithRating(6.5, 10))
	testutil.TestMovie(t, db, testutil.WithRating(9.1, 10))
	testutil.TestMovie(t, db, testutil.WithRating(7.8, 10))

	movies, _, err := repo.List(&dto.MovieListRequest{Page: 1, PageSize: 20, Sort: "rating"})
	require.NoError(t, err)
	require.Len(t, movies, 3)
	assert.Equal(t, 9.1, movies[0].VoteAverage)
	assert.Equal(t, 7.8, movies[1].VoteAverage)
	assert.Equal(t, 6.5, movies[2].VoteAverage)
}

func TestMovieRepository_List_Search(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMovieRepository(db)

	testutil.TestMovie(t, db, testutil.WithTitle("The Matrix"))
	testutil.TestMovie(t, db, testutil.WithTitle("Inception"))

	_, total, err := repo.List(&dto.MovieListRequest{Page: 1, PageSize: 20, Search: "Matrix"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestMovieRepository_ListTrending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMovieRepository(db)

	testutil.TestMovie(t, db, testutil.WithViewCount(100))
	testutil.TestMovie(t, db, testutil.WithViewCount(500))
	testutil.TestMovie(t, db, testutil.WithViewCount(300))

	movies, err := repo.ListTrending(2)
	require.NoError(t, err)
	require.Len(t, movies, 2)
	assert.Equal(t, int64(500), movies[0].ViewCount)
	assert.Equal(t, int64(300), movies[1].ViewCount)
}

func TestMovieRepository_ListTrending_TiebreakByPopularity(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMovieRepository(db)

	// 同观看量时按热度排，评分不参与
	hot := testutil.TestMovie(t, db,
		testutil.WithViewCount(300),
		testutil.WithPopularity(90),
		testutil.WithRating(6.0, 100))
	testutil.TestMovie(t, db,
		testutil.WithViewCount(300),
		testutil.WithPopularity(40),
		testutil.WithRating(9.5, 100))

	movies, err := repo.ListTrending(2)
	require.NoError(t, err)
	require.Len(t, movies, 2)
	assert.Equal(t, hot.ID, movies[0].ID)
}

func TestMovieRepository_ListGenres(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMovieRepository(db)

	testutil.TestMovie(t, db, testutil.WithGenres("Sci-Fi", "Action"))
	testutil.TestMovie(t, db, testutil.WithGenres("Action", "Drama"))
	// 未上映影片的类型不出现在筛选器里
	testutil.TestMovie(t, db,
		testutil.WithGenres("Horror"),
		testutil.WithMovieStatus("coming_soon"))

	genres, err := repo.ListGenres()
	require.NoError(t, err)
	assert.Equal(t, []string{"Action", "Drama", "Sci-Fi"}, genres)
}

func TestMovieRepository_ListTopRated_Exclusions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMovieRepository(db)

	best := testutil.TestMovie(t, db, testutil.WithRating(9.5, 100))
	second := testutil.TestMovie(t, db, testutil.WithRating(8.5, 100))

	movies, err := repo.ListTopRated(10, []int64{best.ID})
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, second.ID, movies[0].ID)
}

func TestMovieRepository_ListByGenre(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMovieRepository(db)

	scifi := testutil.TestMovie(t, db, testutil.WithGenres("Sci-Fi"), testutil.WithRating(8.0, 50))
	testutil.TestMovie(t, db, testutil.WithGenres("Drama"))
	excluded := testutil.TestMovie(t, db, testutil.WithGenres("Sci-Fi"), testutil.WithRating(9.0, 50))

	movies, err := repo.ListByGenre("Sci-Fi", 10, []int64{excluded.ID})
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, scifi.ID, movies[0].ID)
}

func TestMovieRepository_IncrementViewCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMovieRepository(db)

	movie := testutil.TestMovie(t, db, testutil.WithViewCount(10))

	require.NoError(t, repo.IncrementViewCount(movie.ID))
	require.NoError(t, repo.IncrementViewCount(movie.ID))

	updated, err := repo.GetByID(movie.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(12), updated.ViewCount)
}

func TestMovieRepository_UpdateRating(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMovieRepository(db)

	movie := testutil.TestMovie(t, db)

	require.NoError(t, repo.UpdateRating(movie.ID, 8.4, 27))

	updated, err := repo.GetByID(movie.ID)
	require.NoError(t, err)
	assert.Equal(t, 8.4, updated.VoteAverage)
	assert.Equal(t, 27, updated.VoteCount)
}

func TestMovieRepository_Stats(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMovieRepository(db)

	testutil.TestMovie(t, db, testutil.WithViewCount(100))
	testutil.TestMovie(t, db, testutil.WithViewCount(50))
	testutil.TestMovie(t, db, testutil.WithMovieStatus("coming_soon"))

	stats, err := repo.Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(2), stats.NowShowing)
	assert.Equal(t, int64(1), stats.ComingSoon)
	assert.Equal(t, int64(150), stats.TotalViews)
}
