package scraper

const threadPageHTML = `
<!DOCTYPE html>
<html>
<head><title>Thread</title></head>
<body>
<h1 class="topBar">Patch Notes Discussion</h1>
<table class="forumTable">
  <tr>
    <td colspan="100">Page Header</td>
  </tr>
  <tr>
    <td class="content-container">
      <div class="content">First post content here</div>
    </td>
    <td class="posted-by">
      <div class="profile-link"><a href="/profile/user1">GGG_Staff</a></div>
      <div class="post_date">2024-02-10 10:30:00</div>
    </td>
    <td><div class="post_anchor" id="12345"></div></td>
  </tr>
  <tr>
    <td class="content-container">
      <div class="content">[quote="GGG_Staff"]First post content here[/quote]Second post <b>content</b> here</div>
    </td>
    <td class="posted-by">
      <div class="profile-link"><a href="/profile/user2">Player123</a></div>
      <div class="post_date">Feb 10, 2024, 11:00:00 AM</div>
    </td>
    <td><div class="post_anchor" id="67890"></div></td>
  </tr>
</table>
<div class="pagination">
  <a class="current" href="/forum/view-thread/123/page/1">1</a>
  <a href="/forum/view-thread/123/page/2">2</a>
  <a href="/forum/view-thread/123/page/3">3</a>
  <span class="separator">…</span>
  <a href="/forum/view-thread/123/page/52">52</a>
  <a href="/forum/view-thread/123/page/2">Next</a>
</div>
</body>
</html>
`

const laterPageHTML = `
<h1>Unrelated heading</h1>
<table class="forumTable">
  <tr>
    <td class="content-container"><div class="content">Post 1</div></td>
    <td class="posted-by">
      <div class="profile-link"><a href="/profile/user1">User1</a></div>
      <div class="post_date">2024-02-10 10:00:00</div>
    </td>
    <td><div class="post_anchor" id="1"></div></td>
  </tr>
  <tr>
    <td class="content-container"><div class="content">Post 2</div></td>
    <td class="posted-by">
      <div class="profile-link"><a href="/profile/user2">User2</a></div>
      <div class="post_date">2024-02-10 11:00:00</div>
    </td>
    <td><div class="post_anchor" id="2"></div></td>
  </tr>
</table>
`

const degradedRowsHTML = `
<table class="forumTable">
  <tr>
    <td class="content-container"><div class="content"></div></td>
    <td class="posted-by">
      <div class="profile-link"><a href="/profile/user1">User1</a></div>
    </td>
    <td><div class="post_anchor" id="1"></div></td>
  </tr>
  <tr>
    <td class="content-container"><div class="content">[quote]only a quote[/quote]</div></td>
    <td class="posted-by"></td>
  </tr>
  <tr>
    <td class="content-container"><div class="content">Valid post</div></td>
    <td class="posted-by">
      <div class="post_date">sometime last week</div>
    </td>
  </tr>
</table>
`

const lastPageHTML = `
<table class="forumTable">
  <tr>
    <td class="content-container"><div class="content">Last page post</div></td>
    <td class="posted-by">
      <div class="profile-link"><a href="/profile/user3">LastPoster</a></div>
      <div class="post_date">2024-02-10 15:00:00</div>
    </td>
    <td><div class="post_anchor" id="99999"></div></td>
  </tr>
</table>
<div class="pagination">
  <a href="/forum/view-thread/123/page/51">Previous</a>
  <a class="current" href="/forum/view-thread/123/page/52">52</a>
</div>
`

const middlePaginationHTML = `
<div class="pagination">
  <a href="/forum/view-thread/9/page/24">Previous</a>
  <a href="/forum/view-thread/9/page/1">1</a>
  <span class="separator">…</span>
  <a href="/forum/view-thread/9/page/24">24</a>
  <span class="current">25</span>
  <a href="/forum/view-thread/9/page/26">26</a>
  <span class="separator">…</span>
  <a href="/forum/view-thread/9/page/52">52</a>
  <a href="/forum/view-thread/9/page/26">Next</a>
</div>
`

const categoryPageHTML = `
<!DOCTYPE html>
<html>
<head><title>Category</title></head>
<body>
<table>
  <thead><tr><th>Thread</th><th>Replies</th></tr></thead>
  <tbody>
    <tr>
      <td class="thread">
        <div class="thread_title">
          <div class="title">
            <a href="/forum/view-thread/3912208">2.0.0 Released</a>
          </div>
        </div>
      </td>
      <td class="views"><span>1,250</span></td>
    </tr>
    <tr>
      <td class="thread">
        <div class="thread_title">
          <div class="title">
            <a href="/forum/view-thread/3910000#p1">New Features Discussion</a>
          </div>
        </div>
      </td>
      <td class="views"><span>450</span></td>
    </tr>
    <tr>
      <td class="thread">
        <div class="thread_title">
          <div class="title">
            <a href="/forum/view-thread/123">No replies yet</a>
          </div>
        </div>
      </td>
      <td class="views"></td>
    </tr>
    <tr><td colspan="2">advertisement</td></tr>
  </tbody>
</table>
<div class="pagination">
  <a class="current" href="/forum/view-forum/news/page/1">1</a>
  <a href="/forum/view-forum/news/page/2">2</a>
  <a href="/forum/view-forum/news/page/3">3</a>
  <a href="/forum/view-forum/news/page/2">Next</a>
</div>
</body>
</html>
`
