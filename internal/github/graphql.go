package github

import (
	"context"
	"net/http"

	"github.com/shurcooL/githubv4"
)

// reviewDecisionClient abstracts the GraphQL query so tests can stub it
type reviewDecisionClient interface {
	ReviewDecision(ctx context.Context, owner, name string, number int) (ReviewDecision, error)
}

type graphQLClient struct {
	client *githubv4.Client
}

func newGraphQLClient(httpClient *http.Client) reviewDecisionClient {
	return &graphQLClient{client: githubv4.NewClient(httpClient)}
}

// ReviewDecision fetches the repository-level review verdict. Only GraphQL
// exposes it; the REST review list does not account for CODEOWNERS or
// branch protection review requirements.
func (g *graphQLClient) ReviewDecision(ctx context.Context, owner, name string, number int) (ReviewDecision, error) {
	var query struct {
		Repository struct {
			PullRequest struct {
				ReviewDecision githubv4.String
			} `graphql:"pullRequest(number: $number)"`
		} `graphql:"repository(owner: $owner, name: $name)"`
	}
	variables := map[string]any{
		"owner":  githubv4.String(owner),
		"name":   githubv4.String(name),
		"number": githubv4.Int(number),
	}
	if err := g.client.Query(ctx, &query, variables); err != nil {
		return ReviewDecisionNone, err
	}
	return ReviewDecision(query.Repository.PullRequest.ReviewDecision), nil
}
