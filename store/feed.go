package store

import "github.com/TOHSTUDIO3/Social-media/cmd/models"

// FeedAssembler composes identity, content and engagement into per-viewer
// read models.
type FeedAssembler struct {
    identity   *IdentityStore
    content    *ContentStore
    engagement *EngagementStore
}

func NewFeedAssembler(identity *IdentityStore, content *ContentStore, engagement *EngagementStore) *FeedAssembler {
    return &FeedAssembler{identity: identity, content: content, engagement: engagement}
}

type FeedItem struct {
    Post           models.Post      `json:"post"`
    AuthorUsername string           `json:"author_username"`
    Comments       []models.Comment `json:"comments"`
    ViewerHasLiked bool             `json:"viewer_has_liked"`
}

// BuildHomeFeed returns every post newest first, each with its author's
// username, its full comment list oldest first, and whether the viewer has
// liked it.
func (a *FeedAssembler) BuildHomeFeed(viewerID uint) ([]FeedItem, error) {
    posts, err := a.content.ListAll()
    if err != nil {
        return nil, err
    }

    liked, err := a.engagement.LikedPostIDs(viewerID)
    if err != nil {
        return nil, err
    }

    items := make([]FeedItem, 0, len(posts))
    for _, post := range posts {
        comments, err := a.engagement.ListComments(post.ID)
        if err != nil {
            return nil, err
        }

        var authorUsername string
        if post.User != nil {
            authorUsername = post.User.Username
        }

        items = append(items, FeedItem{
            Post:           post,
            AuthorUsername: authorUsername,
            Comments:       comments,
            ViewerHasLiked: liked[post.ID],
        })
    }
    return items, nil
}

type Profile struct {
    User  models.User   `json:"user"`
    Posts []models.Post `json:"posts"`
}

// BuildProfile returns a user's page: their posts newest first. Comments and
// like state are deliberately not attached; the profile is a post listing.
func (a *FeedAssembler) BuildProfile(username string) (*Profile, error) {
    user, err := a.identity.LookupByUsername(username)
    if err != nil {
        return nil, err
    }

    posts, err := a.content.ListByAuthor(user.ID)
    if err != nil {
        return nil, err
    }

    return &Profile{User: *user, Posts: posts}, nil
}
