package command

const helpText = `Usage: fgit [command]

fgit is a command-line tool that wraps around Git and provides a simpler way to create conventional commits and other niceties. Conventional commits follow a standardized format for commit messages, making it easier to understand the purpose of a change.

All commands not listed below will be passed through to Git.
For example, ` + "`fgit status`" + ` will run ` + "`git status`" + `.

Commands:
    commit <type> <scope> <description>         Create a conventional commit with the specified type, scope, and description.
                                                If on an issue branch, the issue key will be appended automatically.

    issue <issue-key>-<issue-number> [suffix]   Create and switch to a new branch using the specified issue key and number.
                                                If a branch with the same name exists, you'll be prompted for a suffix.

    finish                                      Push the current branch to origin and set it as upstream.
                                                Asks for confirmation when the working tree has pending changes.

    mrs [project-id]                            List merge requests on gitlab.
                                                If not provided will use GITLAB_PROJECT_ID. Requires GITLAB_TOKEN

    update                                      Update fgit to the latest version

    --fgit-help                                 Show help information
    --version                                   Show version information
`
