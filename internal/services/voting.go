package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/campora/campus-portal/internal/entity"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrPermission    = errors.New("permission denied")
	ErrPollClosed    = errors.New("poll is closed for voting")
	ErrPollPublished = errors.New("poll results are published")
)

type Voting struct {
	log           *slog.Logger
	pollStorage   PollStorage
	optionStorage OptionStorage
	voteStorage   VoteStorage
	classStorage  ClassStorage
	identity      IdentityResolver
}

type PollStorage interface {
	SavePollWithOptions(ctx context.Context, title, classID, facultyID string, labels []string) (string, error)
	GetPollByID(ctx context.Context, id string) (entity.Poll, error)
	GetPollsByClassID(ctx context.Context, classID string) ([]entity.Poll, error)
	SetPollOpen(ctx context.Context, id string, open bool) error
	PublishPoll(ctx context.Context, id string) error
}

type OptionStorage interface {
	GetOptionsByPollID(ctx context.Context, pollID string) ([]entity.Option, error)
	GetOptionByID(ctx context.Context, id string) (entity.Option, error)
}

type VoteStorage interface {
	UpsertVote(ctx context.Context, pollID, optionID, studentID string) error
	GetVotesByPollID(ctx context.Context, pollID string) ([]entity.Vote, error)
}

type ClassStorage interface {
	GetStudentsByClassID(ctx context.Context, classID string) ([]entity.Student, error)
}

// IdentityResolver maps the authenticated user to their campus record.
type IdentityResolver interface {
	ResolveStudent(ctx context.Context, userID, email string) (entity.Student, error)
	ResolveFaculty(ctx context.Context, userID, email string) (entity.Faculty, error)
}

func NewVoting(
	log *slog.Logger,
	pollStorage PollStorage,
	optionStorage OptionStorage,
	voteStorage VoteStorage,
	classStorage ClassStorage,
	identity IdentityResolver,
) *Voting {
	return &Voting{
		log:           log,
		pollStorage:   pollStorage,
		optionStorage: optionStorage,
		voteStorage:   voteStorage,
		classStorage:  classStorage,
		identity:      identity,
	}
}

// CreatePoll creates a class poll with one option per selected student.
// The caller must be the advisor of the class, and at least two of the given
// ids must belong to students of that class; nothing is written otherwise.
func (v *Voting) CreatePoll(ctx context.Context, title, classID, userID, email string, optionStudentIDs []string) (string, error) {
	const op = "voting.CreatePoll"

	log := v.log.With(slog.String("op", op), slog.String("class_id", classID))

	faculty, err := v.identity.ResolveFaculty(ctx, userID, email)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if !faculty.Advises(classID) {
		return "", fmt.Errorf("%s: %w", op, ErrPermission)
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return "", fmt.Errorf("%w: title is empty", ErrValidation)
	}

	students, err := v.classStorage.GetStudentsByClassID(ctx, classID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	byID := make(map[string]entity.Student, len(students))
	for _, s := range students {
		byID[s.ID] = s
	}

	seen := make(map[string]bool, len(optionStudentIDs))
	var labels []string
	for _, id := range optionStudentIDs {
		student, ok := byID[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		labels = append(labels, student.RollNumber+" "+student.FullName)
	}

	if len(labels) < 2 {
		return "", fmt.Errorf("%w: at least two student options required", ErrValidation)
	}

	pollID, err := v.pollStorage.SavePollWithOptions(ctx, title, classID, faculty.ID, labels)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	log.Info("poll created", slog.String("poll_id", pollID), slog.Int("options", len(labels)))

	return pollID, nil
}

// ToggleOpen flips is_open on an unpublished poll. Reopening a published poll
// is rejected: publication is a one-way door.
func (v *Voting) ToggleOpen(ctx context.Context, pollID, userID, email string) (bool, error) {
	const op = "voting.ToggleOpen"

	poll, faculty, err := v.advisedPoll(ctx, pollID, userID, email)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	if poll.Published {
		return false, fmt.Errorf("%s: %w", op, ErrPollPublished)
	}

	if err := v.pollStorage.SetPollOpen(ctx, pollID, !poll.IsOpen); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	v.log.Info("poll toggled", slog.String("op", op), slog.String("poll_id", pollID),
		slog.Bool("is_open", !poll.IsOpen), slog.String("faculty_id", faculty.ID))

	return !poll.IsOpen, nil
}

// PublishResults closes the poll and makes the tally visible to students.
// There is no unpublish.
func (v *Voting) PublishResults(ctx context.Context, pollID, userID, email string) error {
	const op = "voting.PublishResults"

	_, faculty, err := v.advisedPoll(ctx, pollID, userID, email)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := v.pollStorage.PublishPoll(ctx, pollID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	v.log.Info("poll published", slog.String("op", op), slog.String("poll_id", pollID),
		slog.String("faculty_id", faculty.ID))

	return nil
}

func (v *Voting) advisedPoll(ctx context.Context, pollID, userID, email string) (entity.Poll, entity.Faculty, error) {
	faculty, err := v.identity.ResolveFaculty(ctx, userID, email)
	if err != nil {
		return entity.Poll{}, entity.Faculty{}, err
	}

	poll, err := v.pollStorage.GetPollByID(ctx, pollID)
	if err != nil {
		return entity.Poll{}, entity.Faculty{}, err
	}

	if !faculty.Advises(poll.ClassID) {
		return entity.Poll{}, entity.Faculty{}, ErrPermission
	}

	return poll, faculty, nil
}

// CastVote records or replaces the student's vote. The storage upsert keyed
// by (poll_id, student_id) is what keeps concurrent resubmissions down to a
// single live row per student; no read-before-write is needed here.
func (v *Voting) CastVote(ctx context.Context, pollID, optionID, userID, email string) error {
	const op = "voting.CastVote"

	student, err := v.identity.ResolveStudent(ctx, userID, email)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	poll, err := v.pollStorage.GetPollByID(ctx, pollID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if poll.ClassID != student.ClassID {
		return fmt.Errorf("%s: %w", op, ErrPermission)
	}
	if poll.Published {
		return fmt.Errorf("%s: %w", op, ErrPollPublished)
	}
	if !poll.IsOpen {
		return fmt.Errorf("%s: %w", op, ErrPollClosed)
	}

	option, err := v.optionStorage.GetOptionByID(ctx, optionID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if option.PollID != pollID {
		return fmt.Errorf("%w: option does not belong to poll", ErrValidation)
	}

	if err := v.voteStorage.UpsertVote(ctx, pollID, optionID, student.ID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	v.log.Info("vote cast", slog.String("op", op), slog.String("poll_id", pollID),
		slog.String("student_id", student.ID))

	return nil
}

// PollResults re-reads the full vote set and recomputes the tally. Any client
// can do this at any time and land on the same answer for the same vote set.
func (v *Voting) PollResults(ctx context.Context, pollID string) (Tally, error) {
	const op = "voting.PollResults"

	votes, err := v.voteStorage.GetVotesByPollID(ctx, pollID)
	if err != nil {
		return Tally{}, fmt.Errorf("%s: %w", op, err)
	}

	return TallyVotes(votes), nil
}

func (v *Voting) PollsForClass(ctx context.Context, classID string) ([]entity.Poll, error) {
	const op = "voting.PollsForClass"

	polls, err := v.pollStorage.GetPollsByClassID(ctx, classID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return polls, nil
}

func (v *Voting) OptionsForPoll(ctx context.Context, pollID string) ([]entity.Option, error) {
	const op = "voting.OptionsForPoll"

	options, err := v.optionStorage.GetOptionsByPollID(ctx, pollID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return options, nil
}

// MyVote returns the student's current choice for the poll, or "" when the
// student has not voted.
func (v *Voting) MyVote(ctx context.Context, pollID, studentID string) (string, error) {
	const op = "voting.MyVote"

	votes, err := v.voteStorage.GetVotesByPollID(ctx, pollID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	for _, vote := range votes {
		if vote.StudentID == studentID {
			return vote.OptionID, nil
		}
	}

	return "", nil
}
