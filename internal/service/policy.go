package service

import "github.com/sowzaxx7/8m-community/internal/model"

type ActionKind string

const (
	ActionCreatePost        ActionKind = "create_post"
	ActionDeletePost        ActionKind = "delete_post"
	ActionBanUser           ActionKind = "ban_user"
	ActionUnbanUser         ActionKind = "unban_user"
	ActionListPosts         ActionKind = "list_posts"
	ActionViewPost          ActionKind = "view_post"
	ActionViewProfile       ActionKind = "view_profile"
	ActionListNotifications ActionKind = "list_notifications"
)

// Action is something a user wants to do, with the resource it applies to
type Action struct {
	Kind   ActionKind
	Tag    model.Tag // create_post
	Target string    // ID of the post or user acted on
}

func CreatePost(tag model.Tag) Action { return Action{Kind: ActionCreatePost, Tag: tag} }
func DeletePost(postID string) Action { return Action{Kind: ActionDeletePost, Target: postID} }
func BanUser(userID string) Action { return Action{Kind: ActionBanUser, Target: userID} }
func UnbanUser(userID string) Action { return Action{Kind: ActionUnbanUser, Target: userID} }
func ListPosts() Action { return Action{Kind: ActionListPosts} }
func ViewPost(postID string) Action { return Action{Kind: ActionViewPost, Target: postID} }
func ViewProfile() Action { return Action{Kind: ActionViewProfile} }
func ListNotifications() Action { return Action{Kind: ActionListNotifications} }

// Writes reports whether the action changes state
func (a Action) Writes() bool {
	switch a.Kind {
	case ActionCreatePost, ActionDeletePost, ActionBanUser, ActionUnbanUser:
		return true
	}

	return false
}

// Authorize is the single place role and ban checks happen. Rules are evaluated
// in order and the first match decides:
//
//  1. no user -> ErrUnauthenticated
//  2. banned users can't write, reads stay allowed
//  3. announcements can only be posted by owners
//  4. deleting posts and (un)banning users is owner only
//  5. anything else is allowed
func Authorize(u *model.User, a Action) error {
	if u == nil {
		return ErrUnauthenticated
	}

	if u.Banned && a.Writes() {
		return ErrForbidden
	}

	switch a.Kind {
	case ActionCreatePost:
		if a.Tag == model.TagAnnouncements && !u.IsOwner() {
			return ErrForbidden
		}
	case ActionDeletePost, ActionBanUser, ActionUnbanUser:
		if !u.IsOwner() {
			return ErrForbidden
		}
	}

	return nil
}
